package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CompositeJPEG scales the PNG overlay to the page and draws it on top.
func CompositeJPEG(page, overlay []byte, quality int) ([]byte, error) {
	base, err := jpeg.Decode(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("decode page image: %w", err)
	}
	over, err := png.Decode(bytes.NewReader(overlay))
	if err != nil {
		return nil, fmt.Errorf("decode overlay: %w", err)
	}

	dst := image.NewRGBA(base.Bounds())
	draw.Draw(dst, dst.Bounds(), base, base.Bounds().Min, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), over, over.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode page image: %w", err)
	}
	return buf.Bytes(), nil
}

// OverlayMarkup appends the overlay as an absolutely positioned image inside
// the page's root element.
func OverlayMarkup(page string, overlay []byte) (string, error) {
	if _, err := png.DecodeConfig(bytes.NewReader(overlay)); err != nil {
		return "", fmt.Errorf("decode overlay: %w", err)
	}
	ctxNode := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(page), ctxNode)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	var root *html.Node
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			root = n
			break
		}
	}
	if root == nil {
		return "", fmt.Errorf("parse page: no root element")
	}

	root.AppendChild(&html.Node{
		Type:     html.ElementNode,
		Data:     "img",
		DataAtom: atom.Img,
		Attr: []html.Attribute{
			{Key: "class", Val: "cv-overlay"},
			{Key: "alt", Val: ""},
			{Key: "src", Val: "data:image/png;base64," + base64.StdEncoding.EncodeToString(overlay)},
		},
	})

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render page: %w", err)
		}
	}
	return buf.String(), nil
}

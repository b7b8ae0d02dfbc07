package encoder

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/sitemapgen/internal/models"

	"golang.org/x/net/idna"
)

const (
	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	imageNS   = "http://www.google.com/schemas/sitemap-image/1.1"
)

// XML renders sitemaps.org 0.9 rows. Relative item URLs and index filenames
// are resolved against BaseURL.
type XML struct {
	BaseURL string
}

// NewXML trims trailing slashes and converts an internationalized host to
// its ASCII (punycode) form, as sitemap locations must be ASCII.
func NewXML(baseURL string) *XML {
	return &XML{BaseURL: strings.TrimRight(asciiHost(baseURL), "/")}
}

func asciiHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	host, err := idna.Lookup.ToASCII(u.Hostname())
	if err != nil {
		return raw
	}
	if port := u.Port(); port != "" {
		host += ":" + port
	}
	u.Host = host
	return u.String()
}

type urlRow struct {
	XMLName    xml.Name   `xml:"url"`
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq string     `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority"`
	Images     []imageRow `xml:"image:image"`
}

type imageRow struct {
	Loc     string `xml:"image:loc"`
	Title   string `xml:"image:title,omitempty"`
	Caption string `xml:"image:caption,omitempty"`
}

type indexRow struct {
	XMLName xml.Name `xml:"sitemap"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod"`
}

// URLRow encodes one <url> element.
func (e *XML) URLRow(it models.Item) ([]byte, error) {
	if strings.TrimSpace(it.URL) == "" {
		return nil, fmt.Errorf("item has empty url")
	}
	if it.ChangeFrequency != "" && !it.ChangeFrequency.Valid() {
		return nil, fmt.Errorf("item %s: unknown change frequency %q", it.URL, it.ChangeFrequency)
	}

	row := urlRow{
		Loc:        e.absolute(it.URL),
		ChangeFreq: string(it.ChangeFrequency),
		Priority:   formatPriority(it.Priority),
	}
	if !it.UpdatedAt.IsZero() {
		row.LastMod = it.UpdatedAt.UTC().Format(time.RFC3339)
	}
	for _, img := range it.Images {
		if img.URL == "" {
			continue
		}
		row.Images = append(row.Images, imageRow{
			Loc:     e.absolute(img.URL),
			Title:   img.Title,
			Caption: img.Caption,
		})
	}
	return marshal(row)
}

// IndexRow encodes one <sitemap> element of the index.
func (e *XML) IndexRow(filename string, ts time.Time) ([]byte, error) {
	if filename == "" {
		return nil, fmt.Errorf("empty sitemap filename")
	}
	return marshal(indexRow{
		Loc:     e.absolute(filename),
		LastMod: ts.UTC().Format(time.RFC3339),
	})
}

func (e *XML) Header(t models.SitemapType) []byte {
	if t == models.TypeIndex {
		return []byte(xml.Header + `<sitemapindex xmlns="` + sitemapNS + `">`)
	}
	return []byte(xml.Header + `<urlset xmlns="` + sitemapNS + `" xmlns:image="` + imageNS + `">`)
}

func (e *XML) Footer(t models.SitemapType) []byte {
	if t == models.TypeIndex {
		return []byte("</sitemapindex>\n")
	}
	return []byte("</urlset>\n")
}

func (e *XML) absolute(loc string) string {
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		return loc
	}
	return e.BaseURL + "/" + strings.TrimLeft(loc, "/")
}

func formatPriority(p float64) string {
	switch {
	case p < 0:
		p = 0
	case p > 1:
		p = 1
	}
	return strconv.FormatFloat(p, 'f', 1, 64)
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

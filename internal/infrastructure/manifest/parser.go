package manifest

import (
	"encoding/xml"
	"fmt"
)

// Entry is one parsed Plugin element from a manifest document.
type Entry struct {
	Name        string
	Version     string
	DownloadURL string
	Files       []string
}

// document mirrors the manifest XML schema:
//
//	<Plugins>
//	  <Plugin Name="..." Version="..." DownloadUrl="...">
//	    <DownloadFile Name="..."/>
//	  </Plugin>
//	</Plugins>
type document struct {
	XMLName xml.Name     `xml:"Plugins"`
	Plugins []pluginElem `xml:"Plugin"`
}

type pluginElem struct {
	Name        string     `xml:"Name,attr"`
	Version     string     `xml:"Version,attr"`
	DownloadURL string     `xml:"DownloadUrl,attr"`
	Files       []fileElem `xml:"DownloadFile"`
}

type fileElem struct {
	Name string `xml:"Name,attr"`
}

// Parse decodes a manifest document. A missing required attribute is a parse
// failure for the whole manifest.
func Parse(data []byte) ([]Entry, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed manifest XML: %w", err)
	}

	entries := make([]Entry, 0, len(doc.Plugins))
	for _, p := range doc.Plugins {
		if p.Name == "" || p.Version == "" || p.DownloadURL == "" {
			return nil, fmt.Errorf("plugin entry missing required attribute (Name=%q Version=%q DownloadUrl=%q)",
				p.Name, p.Version, p.DownloadURL)
		}

		files := make([]string, 0, len(p.Files))
		for _, f := range p.Files {
			if f.Name == "" {
				return nil, fmt.Errorf("plugin %q has a DownloadFile without a Name attribute", p.Name)
			}
			files = append(files, f.Name)
		}

		entries = append(entries, Entry{
			Name:        p.Name,
			Version:     p.Version,
			DownloadURL: p.DownloadURL,
			Files:       files,
		})
	}

	return entries, nil
}

// Package manifest supplies the ordered list of bundles to fetch: either the
// built-in list or a YAML manifest file.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"depfetch/internal/domain"
)

// bundles is the fixed set of third-party bundles the build expects, in order.
var bundles = []domain.DownloadTask{
	{SourceURL: "https://curl.haxx.se/ca/cacert.pem", DestinationPath: "src/trusted_roots.pem"},
	{SourceURL: "https://www.nifty-networks.net/swirc/curl-7.87.0.cab", DestinationPath: "curl-7.87.0.cab"},
	{SourceURL: "https://www.nifty-networks.net/swirc/gnu-bundle-202205.cab", DestinationPath: "gnu-bundle-202205.cab"},
	{SourceURL: "https://www.nifty-networks.net/swirc/hunspell-1.7.2.cab", DestinationPath: "hunspell-1.7.2.cab"},
	{SourceURL: "https://www.nifty-networks.net/swirc/hunspell-en-us.cab", DestinationPath: "hunspell-en-us.cab"},
	{SourceURL: "https://www.nifty-networks.net/swirc/libressl-3.6.2.cab", DestinationPath: "libressl-3.6.2.cab"},
	{SourceURL: "https://www.nifty-networks.net/swirc/pdcurses-3.9-utf8-colors.cab", DestinationPath: "pdcurses-3.9.cab"},
	{SourceURL: "https://www.nifty-networks.net/swirc/swirc-locales-20230209.cab", DestinationPath: "swirc-locales-20230209.cab"},
}

// Default returns a copy of the built-in bundle list
func Default() []domain.DownloadTask {
	tasks := make([]domain.DownloadTask, len(bundles))
	copy(tasks, bundles)
	return tasks
}

type document struct {
	Tasks []entry `yaml:"tasks"`
}

type entry struct {
	URL         string `yaml:"url"`
	Destination string `yaml:"destination"`
}

// Load reads a YAML manifest:
//
//	tasks:
//	  - url: https://curl.haxx.se/ca/cacert.pem
//	    destination: src/trusted_roots.pem
//
// An empty path selects the built-in list.
func Load(path string) ([]domain.DownloadTask, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	tasks, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return tasks, nil
}

// Parse decodes and validates a YAML manifest. Unknown keys are rejected.
func Parse(data []byte) ([]domain.DownloadTask, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	tasks := make([]domain.DownloadTask, 0, len(doc.Tasks))
	for i, e := range doc.Tasks {
		task := domain.DownloadTask{SourceURL: e.URL, DestinationPath: e.Destination}
		if err := task.Validate(); err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

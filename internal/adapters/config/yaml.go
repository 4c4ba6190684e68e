package config

import (
	"bytes"
	"errors"
	"io"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

func parseYAML(data []byte) (*ProfileFile, error) {
	var file ProfileFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.Wrap(domain.ErrSchema, "failed to parse profile: "+err.Error())
	}
	return &file, nil
}

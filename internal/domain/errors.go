package domain

import "errors"

var (
	ErrInvertedWindow = errors.New("time window: earliest is after latest")
	ErrManifestFull   = errors.New("manifest is full")
)

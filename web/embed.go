package web

import "embed"

// FS holds the stylesheet and script served under /static.
//
//go:embed static/*
var FS embed.FS

package storage

import (
	"bytes"
	"errors"
	"testing"

	"agenda/config"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestDetectImage(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
		wantType string
		wantExt  string
		wantErr  bool
	}{
		{name: "png with extension", data: pngHeader, filename: "Logo.PNG", wantType: "image/png", wantExt: ".png"},
		{name: "png without extension", data: pngHeader, filename: "logo", wantType: "image/png", wantExt: ".png"},
		{name: "empty", data: nil, filename: "logo.png", wantErr: true},
		{name: "text", data: []byte("hello world"), filename: "logo.png", wantErr: true},
		{name: "too large", data: append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, maxImageSize)...), filename: "logo.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, ext, err := detectImage(tt.data, tt.filename)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFile) {
					t.Fatalf("want ErrInvalidFile, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ct != tt.wantType || ext != tt.wantExt {
				t.Fatalf("got (%q, %q), want (%q, %q)", ct, ext, tt.wantType, tt.wantExt)
			}
		})
	}
}

func TestObjectURLRoundTrip(t *testing.T) {
	cfg := config.S3Config{Endpoint: "minio:9000", Bucket: "agenda", UseSSL: false}

	url := objectURL(cfg, "establishments/42/logo.png")
	if url != "http://minio:9000/agenda/establishments/42/logo.png" {
		t.Fatalf("unexpected url %q", url)
	}

	name, err := objectNameFromURL(cfg, url)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if name != "establishments/42/logo.png" {
		t.Fatalf("unexpected object name %q", name)
	}
}

func TestObjectNameFromForeignURL(t *testing.T) {
	cfg := config.S3Config{Endpoint: "minio:9000", Bucket: "agenda", UseSSL: true}

	for _, url := range []string{
		"https://example.com/agenda/x.png",
		"https://minio:9000/other/x.png",
		"https://minio:9000/agenda/",
	} {
		if _, err := objectNameFromURL(cfg, url); !errors.Is(err, ErrInvalidFile) {
			t.Errorf("%s: want ErrInvalidFile, got %v", url, err)
		}
	}
}

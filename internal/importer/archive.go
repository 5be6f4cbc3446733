package importer

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var (
	// ErrCorruptArchive indicates the upload claimed to be a ZIP archive but
	// could not be opened as one.
	ErrCorruptArchive = errors.New("corrupt archive")
	// ErrNoSpreadsheet indicates the archive contained no spreadsheet entry.
	ErrNoSpreadsheet = errors.New("no spreadsheet found in archive")
)

// ImageBundle maps lower-cased base filenames to raw image bytes extracted
// from an uploaded archive. Scoped to a single import request.
type ImageBundle map[string][]byte

// Lookup finds an image by filename, case-insensitively.
func (b ImageBundle) Lookup(name string) ([]byte, bool) {
	data, ok := b[strings.ToLower(path.Base(name))]
	return data, ok
}

var spreadsheetExts = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".csv":  true,
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// isArchive reports whether the upload should be treated as a ZIP archive,
// judged by the declared content type or the filename extension.
func isArchive(filename, contentType string) bool {
	switch contentType {
	case "application/zip", "application/x-zip-compressed", "multipart/x-zip":
		return true
	}
	return strings.HasSuffix(strings.ToLower(filename), ".zip")
}

// ExtractUpload separates an uploaded file into spreadsheet bytes and an
// image bundle. Plain spreadsheet uploads pass through unchanged with an
// empty bundle. For archives, the first entry with a spreadsheet extension
// becomes the spreadsheet; entries with image extensions are collected into
// the bundle keyed by lower-cased base filename; everything else is ignored.
func ExtractUpload(data []byte, filename, contentType string) (sheet []byte, sheetName string, bundle ImageBundle, err error) {
	if !isArchive(filename, contentType) {
		return data, filename, ImageBundle{}, nil
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, "", nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}

	bundle = ImageBundle{}
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		base := path.Base(entry.Name)
		// macOS archives carry metadata entries under __MACOSX
		if strings.HasPrefix(entry.Name, "__MACOSX/") || strings.HasPrefix(base, ".") {
			continue
		}
		ext := strings.ToLower(path.Ext(base))

		switch {
		case spreadsheetExts[ext] && sheet == nil:
			sheet, err = readZipEntry(entry)
			if err != nil {
				return nil, "", nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
			}
			sheetName = base
		case imageExts[ext]:
			img, err := readZipEntry(entry)
			if err != nil {
				return nil, "", nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
			}
			bundle[strings.ToLower(base)] = img
		}
	}

	if sheet == nil {
		return nil, "", nil, ErrNoSpreadsheet
	}
	return sheet, sheetName, bundle, nil
}

func readZipEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

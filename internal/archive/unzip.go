package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/participax/civiclens/internal/model"
)

// ExtractInterviews extracts the interview-related entries of the archive
// into destDir, preserving the archive's directory layout. Directories,
// hidden files, and entries outside the corpus extensions are ignored
// silently; relevant files that fail the filter are recorded as skipped.
func ExtractInterviews(archivePath, destDir string, filter *Filter) (*model.FetchResult, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = r.Close() }()

	result := &model.FetchResult{Total: len(r.File)}
	for _, zf := range r.File {
		name := path.Base(zf.Name)
		if zf.FileInfo().IsDir() || name == "" || name == "." || name == "/" {
			continue
		}
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !filter.IsRelevantExtension(name) {
			continue
		}
		if filter.IsExcluded(name) {
			result.Skipped = append(result.Skipped, model.SkippedFile{
				Name:   name,
				Reason: "excluded by name",
			})
			continue
		}
		if !filter.IsInterviewRelated(name) {
			result.Skipped = append(result.Skipped, model.SkippedFile{
				Name:   name,
				Reason: "not interview-related",
			})
			continue
		}

		destPath, err := safeJoin(destDir, zf.Name)
		if err != nil {
			return nil, err
		}
		size, err := extractFile(zf, destPath)
		if err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", zf.Name, err)
		}

		result.Extracted = append(result.Extracted, model.FileInfo{
			Name:               name,
			Path:               destPath,
			OriginalPath:       zf.Name,
			IsInterviewRelated: true,
			Size:               size,
		})
	}
	return result, nil
}

func extractFile(zf *zip.File, destPath string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return 0, err
	}

	src, err := zf.Open()
	if err != nil {
		return 0, err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(destPath)
	if err != nil {
		return 0, err
	}

	size, err := io.Copy(dst, src)
	if err != nil {
		_ = dst.Close()
		_ = os.Remove(destPath)
		return 0, err
	}
	if err := dst.Close(); err != nil {
		return 0, err
	}
	return size, nil
}

// safeJoin resolves an archive entry name under destDir and rejects names
// that would escape it.
func safeJoin(destDir, name string) (string, error) {
	joined := filepath.Join(destDir, filepath.FromSlash(name))
	base := filepath.Clean(destDir)
	if joined != base && !strings.HasPrefix(joined, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("unsafe path in archive: %s", name)
	}
	return joined, nil
}

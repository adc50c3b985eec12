package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/rs/zerolog"

	"inkwell/api/internal/ids"
	"inkwell/api/internal/media/sniffer"
	"inkwell/api/internal/media/svg"
	"inkwell/api/internal/storage"
)

// MediaService validates uploaded images and stores them in the object
// store. Used for profile photos and post images.
type MediaService struct {
	store *storage.ObjectStore
	log   zerolog.Logger
}

func NewMediaService(store *storage.ObjectStore, log zerolog.Logger) *MediaService {
	return &MediaService{store: store, log: log}
}

type MediaUpload struct {
	ID  string
	Key string
	URL string
}

// Upload sniffs the actual content type, rejects declared/actual
// mismatches, sanitizes SVG payloads and writes the object under the
// given key prefix.
func (s *MediaService) Upload(ctx context.Context, prefix string, file multipart.File, header *multipart.FileHeader) (MediaUpload, error) {
	if file == nil || header == nil {
		return MediaUpload{}, errors.New("invalid file payload")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return MediaUpload{}, fmt.Errorf("read file: %w", err)
	}
	if len(data) == 0 {
		return MediaUpload{}, errors.New("empty file")
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	result, err := sniffer.DetectHead(head)
	if err != nil {
		return MediaUpload{}, fmt.Errorf("detect type: %w", err)
	}

	declared := sniffer.MimeTypeFromHTTP(http.Header(header.Header))
	if declared != "" && declared != result.MIME {
		return MediaUpload{}, fmt.Errorf("content type mismatch: declared %s, actual %s", declared, result.MIME)
	}

	if result.Type == sniffer.TypeSVG {
		clean, err := svg.Sanitize(data)
		if err != nil {
			return MediaUpload{}, fmt.Errorf("sanitize svg: %w", err)
		}
		data = clean
	}

	id := ids.New()
	key := path.Join(prefix, fmt.Sprintf("%s.%s", id, result.Type))

	url, err := s.store.Put(ctx, key, data, result.MIME)
	if err != nil {
		return MediaUpload{}, err
	}

	s.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("media stored")
	return MediaUpload{ID: id, Key: key, URL: url}, nil
}

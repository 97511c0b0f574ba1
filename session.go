package mdpost

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/alnah/go-mdpost/internal/export"
	"github.com/alnah/go-mdpost/internal/fileutil"
)

// imageIDPrefix prefixes the per-session image counter.
const imageIDPrefix = "img-"

// sessionFilePermissions restricts snapshots to the owner: drafts may be private.
const sessionFilePermissions = 0o600

// Session is an editing session: a markdown draft, its target filename and
// the images attached to it. Image ids are assigned in attachment order and
// never reused, even after removal.
//
// A Session is not safe for concurrent mutation.
type Session struct {
	ID       string
	Content  string // markdown draft
	Filename string // requested export base name

	images []ImageAsset
	last   int // number of the last assigned img-N id
}

// NewSession returns an empty session with a fresh random ID.
func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// Attach validates mediaType and appends a new image under the next id.
func (s *Session) Attach(name string, content []byte, mediaType string) (ImageAsset, error) {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if !export.IsSupported(mediaType) {
		return ImageAsset{}, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, mediaType)
	}

	s.last++
	img := ImageAsset{
		ID:        imageIDPrefix + strconv.Itoa(s.last),
		Name:      name,
		MediaType: mediaType,
		Content:   content,
	}
	s.images = append(s.images, img)
	return img, nil
}

// AttachDataURL decodes a "data:<type>;base64,<payload>" URI and attaches it.
func (s *Session) AttachDataURL(name, dataURL string) (ImageAsset, error) {
	mediaType, content, err := decodeDataURL(dataURL)
	if err != nil {
		return ImageAsset{}, err
	}
	return s.Attach(name, content, mediaType)
}

// AttachFile reads an image from disk and attaches it under its base name.
// The media type comes from the extension, or from the content when the
// extension is unknown.
func (s *Session) AttachFile(path string) (ImageAsset, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path is user-provided
	if err != nil {
		return ImageAsset{}, fmt.Errorf("%w: %v", ErrReadImage, err)
	}

	mediaType := export.MediaTypeForExtension(filepath.Ext(path))
	if mediaType == "" {
		mediaType = sniffMediaType(content)
	}
	return s.Attach(filepath.Base(path), content, mediaType)
}

// Remove deletes the image with the given id.
func (s *Session) Remove(id string) error {
	for i, img := range s.images {
		if img.ID == id {
			s.images = append(s.images[:i:i], s.images[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrImageNotFound, id)
}

// Image returns the image with the given id.
func (s *Session) Image(id string) (ImageAsset, bool) {
	for _, img := range s.images {
		if img.ID == id {
			return img, true
		}
	}
	return ImageAsset{}, false
}

// Images returns a copy of the images in attachment order.
func (s *Session) Images() []ImageAsset {
	out := make([]ImageAsset, len(s.images))
	copy(out, s.images)
	return out
}

// ---------------------------------------------------------------------------
// Snapshots
// ---------------------------------------------------------------------------

// Snapshot is the persisted form of a Session. Images carry their content
// as data URIs.
type Snapshot struct {
	ID          string          `json:"id"`
	Content     string          `json:"content"`
	Filename    string          `json:"filename"`
	NextImageID int             `json:"nextImageId"`
	Images      []SnapshotImage `json:"images"`
}

// SnapshotImage is one image of a Snapshot.
type SnapshotImage struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DataURL   string `json:"dataUrl"`
	MediaType string `json:"mimeType"`
}

// Snapshot captures the session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:          s.ID,
		Content:     s.Content,
		Filename:    s.Filename,
		NextImageID: s.last,
		Images:      make([]SnapshotImage, len(s.images)),
	}
	for i, img := range s.images {
		snap.Images[i] = SnapshotImage{
			ID:        img.ID,
			Name:      img.Name,
			DataURL:   img.DataURL(),
			MediaType: img.MediaType,
		}
	}
	return snap
}

// RestoreSession rebuilds a session from a snapshot. Stored ids are kept;
// images without one, or repeating an earlier image's id, get the next id. The counter resumes past both the
// stored nextImageId and the highest img-N id, so restored ids are never
// handed out again.
func RestoreSession(snap Snapshot) (*Session, error) {
	s := &Session{
		ID:       snap.ID,
		Content:  snap.Content,
		Filename: snap.Filename,
		last:     max(snap.NextImageID, 0),
		images:   make([]ImageAsset, 0, len(snap.Images)),
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	for _, img := range snap.Images {
		if n, ok := imageNumber(img.ID); ok && n > s.last {
			s.last = n
		}
	}

	seen := make(map[string]bool, len(snap.Images))
	for i, img := range snap.Images {
		mediaType, content, err := decodeDataURL(img.DataURL)
		if err != nil {
			return nil, fmt.Errorf("%w: image %d: %v", ErrSnapshotParse, i, err)
		}
		if img.MediaType != "" {
			mediaType = strings.ToLower(img.MediaType)
		}
		if mediaType == "" {
			mediaType = MediaTypePNG
		}

		id := img.ID
		if id == "" || seen[id] {
			s.last++
			id = imageIDPrefix + strconv.Itoa(s.last)
		}
		seen[id] = true
		s.images = append(s.images, ImageAsset{ID: id, Name: img.Name, MediaType: mediaType, Content: content})
	}
	return s, nil
}

// MarshalJSON encodes the session as its Snapshot.
func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

// UnmarshalJSON decodes a Snapshot into the session.
func (s *Session) UnmarshalJSON(data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotParse, err)
	}
	restored, err := RestoreSession(snap)
	if err != nil {
		return err
	}
	*s = *restored
	return nil
}

// SaveSession writes the session snapshot to path atomically.
func SaveSession(path string, s *Session) error {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotWrite, err)
	}
	if err := fileutil.WriteFileAtomic(path, append(data, '\n'), sessionFilePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotWrite, err)
	}
	return nil
}

// LoadSession reads a session snapshot from path. A missing file is
// reported with an error wrapping fs.ErrNotExist.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- session path is user-provided
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	s := &Session{}
	if err := s.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenSession loads the session at path, or returns a new one when the
// file does not exist yet.
func OpenSession(path string) (*Session, error) {
	s, err := LoadSession(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewSession(), nil
	}
	return s, err
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// decodeDataURL splits "data:<type>;base64,<payload>" into its media type
// and decoded bytes.
func decodeDataURL(dataURL string) (string, []byte, error) {
	rest, ok := cutPrefixFold(strings.TrimSpace(dataURL), "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURL)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload", ErrInvalidDataURL)
	}
	mediaType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("%w: payload is not base64", ErrInvalidDataURL)
	}
	if semi := strings.IndexByte(mediaType, ';'); semi >= 0 {
		mediaType = mediaType[:semi]
	}

	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return strings.ToLower(mediaType), content, nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

// imageNumber parses the N of an "img-N" id.
func imageNumber(id string) (int, bool) {
	digits, ok := strings.CutPrefix(id, imageIDPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// sniffMediaType detects the media type from content, without parameters.
func sniffMediaType(content []byte) string {
	detected := http.DetectContentType(content)
	mediaType, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return detected
	}
	return mediaType
}

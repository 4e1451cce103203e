package desk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/artem13815/careerdesk/pkg/logger"
	"github.com/artem13815/careerdesk/pkg/storage"
)

var (
	// ErrBusy is returned when an upload or manual save is already pending.
	ErrBusy = errors.New("another submission is in progress")
	// ErrResumeRequired is returned by NavigateToFeature before a resume is stored.
	ErrResumeRequired = errors.New(MsgResumeRequired)
)

// DefaultManualSaveDelay is the pause before pasted text is stored.
const DefaultManualSaveDelay = 500 * time.Millisecond

// File is one uploaded file.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Extractor turns an uploaded file into plain text.
type Extractor interface {
	Extract(ctx context.Context, f File) (string, error)
}

// Detailer is implemented by extraction errors that carry a server message.
type Detailer interface {
	Detail() string
}

// Deps are the collaborators of a Desk. Persistent may be nil.
type Deps struct {
	Extractor  Extractor
	Session    storage.Store
	Persistent storage.Store
	Logger     *zap.Logger
	Clock      func() time.Time
}

// Option configures a Desk.
type Option func(*Desk)

// WithManualSaveDelay sets the pause used by SaveManualResume. Zero disables it.
func WithManualSaveDelay(d time.Duration) Option {
	return func(k *Desk) { k.delay = d }
}

// Desk holds the upload state of one page view.
type Desk struct {
	id         string
	extractor  Extractor
	session    storage.Store
	persistent storage.Store
	log        *zap.Logger
	now        func() time.Time
	delay      time.Duration

	mu         sync.Mutex
	state      State
	pending    bool
	lastActive time.Time
}

func New(id string, deps Deps, opts ...Option) *Desk {
	d := &Desk{
		id:         id,
		extractor:  deps.Extractor,
		session:    deps.Session,
		persistent: deps.Persistent,
		log:        deps.Logger,
		now:        deps.Clock,
		delay:      DefaultManualSaveDelay,
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	d.log = d.log.With(zap.String("session", id))
	if d.now == nil {
		d.now = time.Now
	}
	for _, o := range opts {
		o(d)
	}
	d.lastActive = d.now()
	return d
}

// ID returns the session id the desk is bound to.
func (d *Desk) ID() string { return d.id }

// Initialize wipes both storage scopes and resets every field. It runs once
// per page load; the state is reset even when a scope fails to clear.
func (d *Desk) Initialize(ctx context.Context) (State, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.touch()

	var errs []error
	if err := d.session.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear session storage: %w", err))
	}
	if d.persistent != nil {
		if err := d.persistent.Clear(ctx); err != nil {
			errs = append(errs, fmt.Errorf("clear persistent storage: %w", err))
		}
	}
	d.state = State{}
	d.pending = false

	err := errors.Join(errs...)
	if err != nil {
		d.log.Warn("initialize: storage not fully cleared", zap.Error(err))
	} else {
		d.log.Debug("initialize: state and storage cleared")
	}
	return d.state.clone(), err
}

// Snapshot returns a copy of the current state.
func (d *Desk) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.clone()
}

// LastActive reports when the desk was last used.
func (d *Desk) LastActive() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastActive
}

// SetManualText updates the paste buffer.
func (d *Desk) SetManualText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.touch()
	d.state.ManualResumeText = text
}

// SetDragOver toggles the drag-and-drop highlight.
func (d *Desk) SetDragOver(over bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.touch()
	d.state.DragOver = over
}

// HandleFileSelect uploads the first selected file; extra files are ignored.
func (d *Desk) HandleFileSelect(ctx context.Context, files []File) error {
	d.log.Debug("file select", zap.Int("files", len(files)))
	if len(files) == 0 {
		return nil
	}
	return d.UploadFile(ctx, files[0])
}

// HandleFileDrop clears the drag highlight and uploads the first dropped file.
func (d *Desk) HandleFileDrop(ctx context.Context, files []File) error {
	d.log.Debug("file drop", zap.Int("files", len(files)))
	d.SetDragOver(false)
	if len(files) == 0 {
		return nil
	}
	return d.UploadFile(ctx, files[0])
}

// UploadFile sends f to the extractor and stores the returned text. Failures
// are recorded in UploadError; the returned error is only ErrBusy or the
// context error.
func (d *Desk) UploadFile(ctx context.Context, f File) error {
	if err := d.begin(); err != nil {
		return err
	}
	defer d.finish()

	log := d.log.With(zap.String("file", f.Name))
	log.Debug("upload: extracting", zap.Int("bytes", len(f.Data)))

	text, err := d.extractor.Extract(ctx, f)

	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case err != nil:
		msg := uploadMessage(err)
		log.Warn("upload: extraction failed", zap.Error(err))
		d.fail(msg)
	case text == "":
		log.Warn("upload: extractor returned no text")
		d.fail(MsgExtractFailed)
	default:
		d.store(ctx, text, f.Name)
	}
	log.Debug("upload: done", zap.Bool("uploaded", d.state.ResumeUploaded), zap.String("error", d.state.ErrorMessage()))
	return ctx.Err()
}

// SaveManualResume stores the paste buffer after the configured delay.
func (d *Desk) SaveManualResume(ctx context.Context) error {
	d.mu.Lock()
	if strings.TrimSpace(d.state.ManualResumeText) == "" {
		d.touch()
		msg := MsgPasteRequired
		d.state.UploadError = &msg
		d.mu.Unlock()
		return nil
	}
	if d.pending {
		d.mu.Unlock()
		return ErrBusy
	}
	text := d.state.ManualResumeText
	d.pending = true
	d.state.IsUploading = true
	d.state.UploadError = nil
	d.touch()
	d.mu.Unlock()

	if d.delay > 0 {
		t := time.NewTimer(d.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			d.finish()
			d.log.Debug("manual save: cancelled")
			return ctx.Err()
		case <-t.C:
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.store(ctx, text, PastedResumeName)
	d.state.ManualResumeText = ""
	d.state.IsUploading = false
	d.pending = false
	d.log.Debug("manual save: done",
		zap.Bool("uploaded", d.state.ResumeUploaded),
		zap.String("preview", logger.TruncateForLog(text, 40)))
	return nil
}

// StoreResumeData writes the resumeData record and, on success, makes text
// the active resume.
func (d *Desk) StoreResumeData(ctx context.Context, text, fileName string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.store(ctx, text, fileName)
}

// ClearResume forgets the active resume. A failed storage removal is logged only.
func (d *Desk) ClearResume(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.touch()
	d.state.ResumeUploaded = false
	d.state.UploadedFileName = ""
	d.state.ResumeText = ""
	d.state.ManualResumeText = ""
	d.state.UploadError = nil
	if err := d.session.RemoveItem(ctx, storage.KeyResumeData); err != nil {
		d.log.Error("clear: remove resumeData", zap.Error(err))
		return
	}
	d.log.Debug("clear: resume removed")
}

// NavigateToFeature returns the page for feature, or "" when the name is
// unknown. Without a stored resume it returns ErrResumeRequired.
func (d *Desk) NavigateToFeature(ctx context.Context, feature string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.touch()
	log := d.log.With(zap.String("feature", feature))
	if !d.state.ResumeUploaded {
		log.Debug("navigate: no resume")
		return "", ErrResumeRequired
	}
	if err := d.session.SetItem(ctx, storage.KeyPreloadedFeature, feature); err != nil {
		log.Error("navigate: store preloaded feature", zap.Error(err))
	}
	path, ok := FeaturePath(feature)
	if !ok {
		log.Debug("navigate: unknown feature")
		return "", nil
	}
	log.Debug("navigate", zap.String("path", path))
	return path, nil
}

// StoredRecord reads the resumeData record back from the session scope.
func (d *Desk) StoredRecord(ctx context.Context) (Record, bool, error) {
	raw, ok, err := d.session.GetItem(ctx, storage.KeyResumeData)
	if err != nil || !ok {
		return Record{}, false, err
	}
	rec, err := DecodeRecord(raw)
	if err != nil {
		return Record{}, false, fmt.Errorf("decode resumeData: %w", err)
	}
	return rec, true, nil
}

// PreloadedFeature returns the feature recorded by the last navigation.
func (d *Desk) PreloadedFeature(ctx context.Context) (string, error) {
	v, _, err := d.session.GetItem(ctx, storage.KeyPreloadedFeature)
	return v, err
}

// begin marks an upload pending. Caller must defer finish on success.
func (d *Desk) begin() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending {
		return ErrBusy
	}
	d.touch()
	d.pending = true
	d.state.IsUploading = true
	d.state.UploadError = nil
	d.state.ResumeUploaded = false
	return nil
}

func (d *Desk) finish() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.IsUploading = false
	d.pending = false
}

// store requires d.mu.
func (d *Desk) store(ctx context.Context, text, fileName string) {
	d.touch()
	raw, err := json.Marshal(newRecord(text, fileName, d.now()))
	if err == nil {
		err = d.session.SetItem(ctx, storage.KeyResumeData, string(raw))
	}
	if err != nil {
		d.log.Error("store: write resumeData", zap.Error(err))
		d.fail(MsgStoreFailed)
		return
	}
	d.state.ResumeText = text
	d.state.UploadedFileName = fileName
	d.state.ResumeUploaded = true
	d.state.UploadError = nil
	d.log.Debug("store: resume stored", zap.String("file", fileName), zap.Int("chars", len(text)))
}

// fail requires d.mu.
func (d *Desk) fail(msg string) {
	d.state.UploadError = &msg
	d.state.ResumeUploaded = false
}

// touch requires d.mu.
func (d *Desk) touch() { d.lastActive = d.now() }

// uploadMessage picks the server detail, then the error text, then a fallback.
func uploadMessage(err error) string {
	var det Detailer
	if errors.As(err, &det) && det.Detail() != "" {
		return det.Detail()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgUploadUnknown
}

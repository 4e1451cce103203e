package desk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/careerdesk/pkg/storage"
	"github.com/artem13815/careerdesk/pkg/storage/memory"
)

var fixedNow = time.Date(2024, 3, 5, 14, 7, 9, 123_000_000, time.UTC)

type fakeExtractor struct {
	text  string
	err   error
	calls int
	// block, when set, holds Extract until closed
	block chan struct{}
}

func (f *fakeExtractor) Extract(ctx context.Context, file File) (string, error) {
	f.calls++
	if f.block != nil {
		<-f.block
	}
	return f.text, f.err
}

type detailErr struct{ msg, detail string }

func (e *detailErr) Error() string  { return e.msg }
func (e *detailErr) Detail() string { return e.detail }

// brokenStore fails every operation.
type brokenStore struct{}

func (brokenStore) SetItem(context.Context, string, string) error {
	return storage.ErrUnavailable
}

func (brokenStore) GetItem(context.Context, string) (string, bool, error) {
	return "", false, storage.ErrUnavailable
}

func (brokenStore) RemoveItem(context.Context, string) error {
	return storage.ErrUnavailable
}

func (brokenStore) Clear(context.Context) error {
	return storage.ErrUnavailable
}

type fixture struct {
	desk       *Desk
	extractor  *fakeExtractor
	session    storage.Store
	persistent storage.Store
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	b := memory.New()
	f := &fixture{
		extractor:  &fakeExtractor{},
		session:    b.Scope("session"),
		persistent: b.Scope("client"),
	}
	f.desk = New("session", Deps{
		Extractor:  f.extractor,
		Session:    f.session,
		Persistent: f.persistent,
		Clock:      func() time.Time { return fixedNow },
	}, append([]Option{WithManualSaveDelay(0)}, opts...)...)
	_, err := f.desk.Initialize(context.Background())
	require.NoError(t, err)
	return f
}

func pdfFile() File {
	return File{Name: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}
}

func TestDesk_InitializeDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.session.SetItem(ctx, storage.KeyResumeData, `{"text":"old"}`))
	require.NoError(t, f.session.SetItem(ctx, storage.KeyPreloadedFeature, FeatureSalary))
	require.NoError(t, f.persistent.SetItem(ctx, "theme", "dark"))
	f.desk.SetManualText("draft")
	f.desk.SetDragOver(true)

	st, err := f.desk.Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, State{}, st)
	assert.Nil(t, st.UploadError)
	assert.False(t, SuccessVisible(st))

	for _, key := range []string{storage.KeyResumeData, storage.KeyPreloadedFeature} {
		_, ok, err := f.session.GetItem(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
	_, ok, err := f.persistent.GetItem(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDesk_InitializeStorageFailure(t *testing.T) {
	d := New("s", Deps{Extractor: &fakeExtractor{}, Session: brokenStore{}, Persistent: brokenStore{}})
	d.SetManualText("draft")

	st, err := d.Initialize(context.Background())
	require.ErrorIs(t, err, storage.ErrUnavailable)
	assert.Contains(t, err.Error(), "clear session storage")
	assert.Contains(t, err.Error(), "clear persistent storage")
	assert.Equal(t, State{}, st, "state resets even when storage fails")
}

func TestDesk_UploadSuccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.extractor.text = "Jane Doe\nEngineer"

	require.NoError(t, f.desk.UploadFile(ctx, pdfFile()))

	st := f.desk.Snapshot()
	assert.True(t, st.ResumeUploaded)
	assert.Equal(t, "cv.pdf", st.UploadedFileName)
	assert.Equal(t, "Jane Doe\nEngineer", st.ResumeText)
	assert.False(t, st.IsUploading)
	assert.Nil(t, st.UploadError)
	assert.True(t, SuccessVisible(st))

	rec, ok, err := f.desk.StoredRecord(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Record{Text: "Jane Doe\nEngineer", FileName: "cv.pdf", UploadedAt: "2024-03-05T14:07:09.123Z"}, rec)

	at, err := rec.UploadTime()
	require.NoError(t, err)
	assert.True(t, at.Equal(fixedNow))
}

func TestDesk_UploadFailureMessages(t *testing.T) {
	cases := []struct {
		name string
		text string
		err  error
		want string
	}{
		{name: "server detail wins", err: &detailErr{msg: "status 415", detail: "Unsupported file type"}, want: "Unsupported file type"},
		{name: "empty detail falls back to message", err: &detailErr{msg: "status 500"}, want: "status 500"},
		{name: "plain error message", err: errors.New("connection refused"), want: "connection refused"},
		{name: "no message at all", err: errors.New(""), want: MsgUploadUnknown},
		{name: "empty text", text: "", want: MsgExtractFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			f.extractor.text, f.extractor.err = tc.text, tc.err

			require.NoError(t, f.desk.UploadFile(ctx, pdfFile()))

			st := f.desk.Snapshot()
			require.NotNil(t, st.UploadError)
			assert.Equal(t, tc.want, *st.UploadError)
			assert.False(t, st.ResumeUploaded)
			assert.False(t, st.IsUploading)
			assert.False(t, SuccessVisible(st))

			_, ok, err := f.desk.StoredRecord(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestDesk_UploadFailureAfterSuccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.extractor.text = "first"
	require.NoError(t, f.desk.UploadFile(ctx, pdfFile()))

	f.extractor.text, f.extractor.err = "", errors.New("bad file")
	require.NoError(t, f.desk.UploadFile(ctx, File{Name: "broken.pdf"}))

	st := f.desk.Snapshot()
	assert.False(t, st.ResumeUploaded)
	assert.Equal(t, "bad file", st.ErrorMessage())
}

func TestDesk_UploadStoreFailure(t *testing.T) {
	ctx := context.Background()
	d := New("s", Deps{
		Extractor: &fakeExtractor{text: "a long resume text"},
		Session:   memory.New(memory.WithQuota(8)).Scope("s"),
	}, WithManualSaveDelay(0))

	require.NoError(t, d.UploadFile(ctx, pdfFile()))

	st := d.Snapshot()
	assert.Equal(t, MsgStoreFailed, st.ErrorMessage())
	assert.False(t, st.ResumeUploaded)
	assert.Empty(t, st.ResumeText)
	assert.False(t, st.IsUploading)
}

func TestDesk_HandleFileSelectUsesFirstFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.extractor.text = "text"

	require.NoError(t, f.desk.HandleFileSelect(ctx, nil))
	assert.Equal(t, 0, f.extractor.calls)
	assert.Equal(t, State{}, f.desk.Snapshot())

	require.NoError(t, f.desk.HandleFileSelect(ctx, []File{{Name: "a.pdf"}, {Name: "b.pdf"}}))
	assert.Equal(t, 1, f.extractor.calls)
	assert.Equal(t, "a.pdf", f.desk.Snapshot().UploadedFileName)
}

func TestDesk_HandleFileDropClearsDrag(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.extractor.text = "text"

	f.desk.SetDragOver(true)
	require.NoError(t, f.desk.HandleFileDrop(ctx, nil))
	assert.False(t, f.desk.Snapshot().DragOver)
	assert.Equal(t, 0, f.extractor.calls)

	f.desk.SetDragOver(true)
	require.NoError(t, f.desk.HandleFileDrop(ctx, []File{{Name: "first.docx"}, {Name: "second.docx"}}))
	st := f.desk.Snapshot()
	assert.False(t, st.DragOver)
	assert.Equal(t, "first.docx", st.UploadedFileName)
	assert.Equal(t, 1, f.extractor.calls)
}

func TestDesk_SaveManualWhitespace(t *testing.T) {
	ctx := context.Background()
	for _, text := range []string{"", "   ", "\n\t \n"} {
		f := newFixture(t)
		f.desk.SetManualText(text)

		require.NoError(t, f.desk.SaveManualResume(ctx))

		st := f.desk.Snapshot()
		assert.Equal(t, MsgPasteRequired, st.ErrorMessage())
		assert.False(t, st.ResumeUploaded)
		assert.False(t, st.IsUploading)
		assert.Equal(t, text, st.ManualResumeText)

		_, ok, err := f.desk.StoredRecord(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestDesk_SaveManualEmptyKeepsUpload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.extractor.text = "Jane"
	require.NoError(t, f.desk.UploadFile(ctx, pdfFile()))

	f.desk.SetManualText("   ")
	require.NoError(t, f.desk.SaveManualResume(ctx))

	st := f.desk.Snapshot()
	assert.Equal(t, MsgPasteRequired, st.ErrorMessage())
	assert.True(t, st.ResumeUploaded)
	assert.Equal(t, "Jane", st.ResumeText)
	assert.Equal(t, "cv.pdf", st.UploadedFileName)

	_, ok, err := f.desk.StoredRecord(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	path, err := f.desk.NavigateToFeature(ctx, FeatureAnalyzer)
	require.NoError(t, err)
	assert.Equal(t, "/resume-analysis", path)
}

func TestDesk_SaveManualEmptyDuringUpload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.extractor.text = "Jane"
	f.extractor.block = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- f.desk.UploadFile(ctx, pdfFile()) }()
	require.Eventually(t, func() bool { return f.desk.Snapshot().IsUploading }, time.Second, time.Millisecond)

	f.desk.SetManualText("")
	require.NoError(t, f.desk.SaveManualResume(ctx))
	st := f.desk.Snapshot()
	assert.True(t, st.IsUploading)
	assert.Equal(t, MsgPasteRequired, st.ErrorMessage())

	close(f.extractor.block)
	require.NoError(t, <-done)
	st = f.desk.Snapshot()
	assert.True(t, st.ResumeUploaded)
	assert.Nil(t, st.UploadError)
}

func TestDesk_SaveManualRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.desk.SetManualText("  Senior Go developer  ")

	require.NoError(t, f.desk.SaveManualResume(ctx))

	st := f.desk.Snapshot()
	assert.True(t, st.ResumeUploaded)
	assert.Equal(t, PastedResumeName, st.UploadedFileName)
	assert.Equal(t, "  Senior Go developer  ", st.ResumeText, "pasted text is stored as typed")
	assert.Empty(t, st.ManualResumeText)
	assert.False(t, st.IsUploading)
	assert.True(t, SuccessVisible(st))

	rec, ok, err := f.desk.StoredRecord(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "  Senior Go developer  ", rec.Text)
	assert.Equal(t, PastedResumeName, rec.FileName)
}

func TestDesk_SaveManualWaitsForDelay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithManualSaveDelay(50*time.Millisecond))
	f.desk.SetManualText("typed resume")

	done := make(chan error, 1)
	go func() { done <- f.desk.SaveManualResume(ctx) }()

	require.Eventually(t, func() bool { return f.desk.Snapshot().IsUploading }, time.Second, time.Millisecond)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("manual save did not finish")
	}
	st := f.desk.Snapshot()
	assert.False(t, st.IsUploading)
	assert.True(t, st.ResumeUploaded)
}

func TestDesk_SaveManualCanceled(t *testing.T) {
	f := newFixture(t, WithManualSaveDelay(time.Hour))
	f.desk.SetManualText("typed resume")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := f.desk.SaveManualResume(ctx)
	require.ErrorIs(t, err, context.Canceled)

	st := f.desk.Snapshot()
	assert.False(t, st.IsUploading)
	assert.False(t, st.ResumeUploaded)
	assert.Equal(t, "typed resume", st.ManualResumeText)

	_, ok, err := f.desk.StoredRecord(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDesk_BusyGuard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.extractor.text = "slow text"
	f.extractor.block = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- f.desk.UploadFile(ctx, pdfFile()) }()
	require.Eventually(t, func() bool { return f.desk.Snapshot().IsUploading }, time.Second, time.Millisecond)

	assert.ErrorIs(t, f.desk.UploadFile(ctx, pdfFile()), ErrBusy)
	f.desk.SetManualText("pasted")
	assert.ErrorIs(t, f.desk.SaveManualResume(ctx), ErrBusy)

	close(f.extractor.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.extractor.calls)

	st := f.desk.Snapshot()
	assert.False(t, st.IsUploading)
	assert.True(t, st.ResumeUploaded)
	assert.Equal(t, "slow text", st.ResumeText)
}

func TestDesk_StoreResumeData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.desk.StoreResumeData(ctx, "stored text", "resume.txt")

	st := f.desk.Snapshot()
	assert.True(t, st.ResumeUploaded)
	assert.Equal(t, "resume.txt", st.UploadedFileName)
	rec, ok, err := f.desk.StoredRecord(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "stored text", rec.Text)
}

func TestDesk_ClearResume(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.extractor.text = "text"
	require.NoError(t, f.desk.UploadFile(ctx, pdfFile()))
	f.desk.SetManualText("draft")

	f.desk.ClearResume(ctx)
	f.desk.ClearResume(ctx)

	st := f.desk.Snapshot()
	assert.False(t, st.ResumeUploaded)
	assert.Empty(t, st.UploadedFileName)
	assert.Empty(t, st.ResumeText)
	assert.Empty(t, st.ManualResumeText)
	assert.Nil(t, st.UploadError)

	_, ok, err := f.desk.StoredRecord(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDesk_ClearResumeStorageFailure(t *testing.T) {
	d := New("s", Deps{Extractor: &fakeExtractor{}, Session: brokenStore{}})
	d.ClearResume(context.Background())
	assert.Equal(t, State{}, d.Snapshot())
}

func TestDesk_NavigateRequiresResume(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	path, err := f.desk.NavigateToFeature(ctx, FeatureAnalyzer)
	require.ErrorIs(t, err, ErrResumeRequired)
	assert.Empty(t, path)
	assert.Equal(t, MsgResumeRequired, err.Error())

	_, ok, err := f.session.GetItem(ctx, storage.KeyPreloadedFeature)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDesk_NavigateToFeature(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.desk.StoreResumeData(ctx, "text", "cv.pdf")

	cases := []struct {
		feature, path string
	}{
		{FeatureAnalyzer, "/resume-analysis"},
		{FeatureInterview, "/interview-assistant"},
		{FeatureSalary, "/salary-intelligence"},
		{"Analyzer", ""},
		{"unknown", ""},
	}
	for _, tc := range cases {
		path, err := f.desk.NavigateToFeature(ctx, tc.feature)
		require.NoError(t, err, tc.feature)
		assert.Equal(t, tc.path, path, tc.feature)

		got, err := f.desk.PreloadedFeature(ctx)
		require.NoError(t, err)
		assert.Equal(t, tc.feature, got)
	}
}

func TestDesk_NavigatePreloadFailureStillNavigates(t *testing.T) {
	ctx := context.Background()
	b := memory.New(memory.WithQuota(90))
	d := New("s", Deps{Extractor: &fakeExtractor{}, Session: b.Scope("s"), Clock: func() time.Time { return fixedNow }})
	// Record fits, the preload key does not.
	d.StoreResumeData(ctx, "x", "a")
	require.True(t, d.Snapshot().ResumeUploaded)

	path, err := d.NavigateToFeature(ctx, FeatureInterview)
	require.NoError(t, err)
	assert.Equal(t, "/interview-assistant", path)
}

func TestDesk_LastActive(t *testing.T) {
	now := fixedNow
	d := New("s", Deps{Extractor: &fakeExtractor{}, Session: memory.New().Scope("s"), Clock: func() time.Time { return now }})
	assert.Equal(t, fixedNow, d.LastActive())

	now = now.Add(time.Minute)
	d.SetDragOver(true)
	assert.Equal(t, fixedNow.Add(time.Minute), d.LastActive())
}

func TestSuccessVisible(t *testing.T) {
	msg := "boom"
	assert.False(t, SuccessVisible(State{}))
	assert.True(t, SuccessVisible(State{ResumeUploaded: true}))
	assert.False(t, SuccessVisible(State{ResumeUploaded: true, UploadError: &msg}))
	assert.False(t, SuccessVisible(State{UploadError: &msg}))
}

func TestState_SnapshotIsCopy(t *testing.T) {
	f := newFixture(t)
	f.desk.SetManualText("   ")
	require.NoError(t, f.desk.SaveManualResume(context.Background()))

	st := f.desk.Snapshot()
	*st.UploadError = "changed"
	assert.Equal(t, MsgPasteRequired, f.desk.Snapshot().ErrorMessage())
}

func TestFeaturePath(t *testing.T) {
	p, ok := FeaturePath(FeatureSalary)
	assert.True(t, ok)
	assert.Equal(t, "/salary-intelligence", p)

	_, ok = FeaturePath("")
	assert.False(t, ok)
}

func TestDecodeRecord(t *testing.T) {
	rec, err := DecodeRecord(`{"text":"t","fileName":"f.pdf","uploadedAt":"2024-03-05T14:07:09.123Z"}`)
	require.NoError(t, err)
	assert.Equal(t, "f.pdf", rec.FileName)

	_, err = DecodeRecord("not json")
	assert.Error(t, err)
}

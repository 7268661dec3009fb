// Package upload drives the lifecycle of a single receipt upload: preview
// conversion, the multipart dispatch, and reconciliation of the extraction
// result into a display-ready artifact. Selecting a new file supersedes the
// previous upload; a superseded upload's result is dropped, never applied.
package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/dmitrijs2005/receiptscan/internal/gqlclient"
	"github.com/dmitrijs2005/receiptscan/internal/logging"
	"github.com/google/uuid"
)

// ErrInvalidFile is returned when the selected file is not an image.
var ErrInvalidFile = errors.New("selected file is not an image")

// genericFailureMsg is shown when a failure carries no service message.
const genericFailureMsg = "Failed to process receipt."

// State is the position of an artifact in its lifecycle.
type State string

const (
	StateIdle         State = "idle"
	StatePreviewReady State = "preview_ready"
	StateProcessing   State = "processing"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Artifact is the client-side record of one upload.
type Artifact struct {
	ID             string
	Filename       string
	PreviewDataURI string
	ExtractedText  string
	State          State
	Message        string
}

// Pipeline owns the current artifact. Methods are safe for concurrent use;
// completion of an older upload never overwrites a newer artifact.
type Pipeline struct {
	client gqlclient.Client
	log    logging.Logger

	mu         sync.Mutex
	generation uint64
	artifact   Artifact
	onChange   func(Artifact)
}

// NewPipeline builds a pipeline with an Idle artifact.
func NewPipeline(client gqlclient.Client, log logging.Logger) *Pipeline {
	return &Pipeline{
		client:   client,
		log:      log.With("component", "upload"),
		artifact: Artifact{State: StateIdle},
	}
}

// SetOnChange registers a callback invoked with a copy of the artifact after
// every state transition.
func (p *Pipeline) SetOnChange(fn func(Artifact)) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// SelectFile starts a new upload. The file's content type is sniffed; a
// non-image fails with ErrInvalidFile before anything is dispatched and
// leaves the current artifact untouched. Otherwise the previous artifact is
// discarded, a preview is built, and the multipart upload is dispatched
// asynchronously with an optional category hint.
func (p *Pipeline) SelectFile(ctx context.Context, filename string, data []byte, category string) (Artifact, error) {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return Artifact{}, fmt.Errorf("%w (detected %s)", ErrInvalidFile, contentType)
	}

	preview := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)

	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.artifact = Artifact{
		ID:             uuid.NewString(),
		Filename:       filename,
		PreviewDataURI: preview,
		State:          StatePreviewReady,
	}
	previewArtifact := p.artifact
	p.artifact.State = StateProcessing
	artifact := p.artifact
	fn := p.onChange
	p.mu.Unlock()

	if fn != nil {
		fn(previewArtifact)
		fn(artifact)
	}

	p.log.Info(ctx, "uploading receipt", "file", filename, "category", category, "type", contentType)

	file := gqlclient.Upload{Filename: filename, ContentType: contentType, Data: data}
	go p.dispatch(ctx, gen, file, category)

	return artifact, nil
}

// Snapshot returns a copy of the current artifact.
func (p *Pipeline) Snapshot() Artifact {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.artifact
}

// ExportText writes the extracted text to w. Best-effort: a failure is
// reported to the caller but never changes artifact state.
func (p *Pipeline) ExportText(w io.Writer) error {
	p.mu.Lock()
	text := p.artifact.ExtractedText
	p.mu.Unlock()

	if text == "" {
		return errors.New("no extracted text to export")
	}
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("writing extracted text: %w", err)
	}
	return nil
}

func (p *Pipeline) dispatch(ctx context.Context, gen uint64, file gqlclient.Upload, category string) {
	result, err := p.client.UploadReceipt(ctx, file, category)

	p.mu.Lock()

	if gen != p.generation {
		p.mu.Unlock()
		p.log.Debug(ctx, "dropping superseded upload result", "file", file.Filename)
		return
	}

	if err != nil {
		p.artifact.State = StateFailed
		p.artifact.ExtractedText = ""
		p.artifact.Message = failureMessage(err)
		p.log.Warn(ctx, "upload failed", "file", file.Filename, "error", err)
	} else {
		p.artifact.State = StateDone
		p.artifact.ExtractedText = renderText(result.Receipt)
		if result.Message != "" {
			p.artifact.Message = result.Message
		} else {
			p.artifact.Message = "Receipt processed successfully!"
		}
	}
	artifact := p.artifact
	fn := p.onChange
	p.mu.Unlock()

	if fn != nil {
		fn(artifact)
	}
}

// failureMessage prefers the service's message; transport failures get the
// generic fallback.
func failureMessage(err error) string {
	var pe *gqlclient.ProtocolError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return genericFailureMsg
}

package monitoring

import (
	"path/filepath"
	"strings"

	"github.com/getsentry/sentry-go"
)

// DefaultInAppExclude lists packages whose frames never count as application
// code: the reporting layer itself and the frameworks calling into it.
var DefaultInAppExclude = []string{
	"github.com/kilianp07/sentrybridge/core/monitoring",
	"github.com/kilianp07/sentrybridge/infra/monitoring",
	"github.com/kilianp07/sentrybridge/infra/interceptor",
	"github.com/getsentry/sentry-go",
	"github.com/gorilla/mux",
	"github.com/spf13/cobra",
	"net/http",
	"runtime",
}

type frameProcessor struct {
	exclude []string
	root    string
}

func newFrameProcessor(exclude []string, root string) *frameProcessor {
	p := &frameProcessor{exclude: exclude}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			p.root = strings.TrimSuffix(abs, string(filepath.Separator)) + string(filepath.Separator)
		}
	}
	return p
}

// BeforeSend marks excluded frames as not in-app and shortens file names
// below the project root.
func (p *frameProcessor) BeforeSend(ev *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if ev == nil {
		return nil
	}
	for i := range ev.Exception {
		if st := ev.Exception[i].Stacktrace; st != nil {
			p.frames(st.Frames)
		}
	}
	for i := range ev.Threads {
		if st := ev.Threads[i].Stacktrace; st != nil {
			p.frames(st.Frames)
		}
	}
	return ev
}

func (p *frameProcessor) frames(frames []sentry.Frame) {
	for i := range frames {
		f := &frames[i]
		if p.excluded(f.Module) {
			f.InApp = false
		}
		if p.root != "" && strings.HasPrefix(f.AbsPath, p.root) {
			f.Filename = filepath.ToSlash(strings.TrimPrefix(f.AbsPath, p.root))
		}
	}
}

func (p *frameProcessor) excluded(module string) bool {
	if module == "" {
		return false
	}
	for _, prefix := range p.exclude {
		if module == prefix || strings.HasPrefix(module, prefix+"/") || strings.HasPrefix(module, prefix+".") {
			return true
		}
	}
	return false
}

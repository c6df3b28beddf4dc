package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// [AnalysisHooks], [CacheHooks] and [HTTPHooks].
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l, or to log.Default() if l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnLoadStart(_ context.Context, source, project string) {
	h.logger.Debug("loading tasks", "source", source, "project", project)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source, project string, taskCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "source", source, "project", project, "err", err)
		return
	}
	h.logger.Debug("loaded tasks", "source", source, "project", project, "tasks", taskCount, "duration", d)
}

func (h *LogHooks) OnAnalyzeStart(_ context.Context, taskCount int) {
	h.logger.Debug("analyzing", "tasks", taskCount)
}

func (h *LogHooks) OnAnalyzeComplete(_ context.Context, taskCount, cycleCount int, d time.Duration, err error) {
	h.logger.Debug("analyzed", "tasks", taskCount, "cycles", cycleCount, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ AnalysisHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)

// ABOUTME: Paginated, append-only view of past run attempts
// ABOUTME: Initial load and refresh replace the list; load-more appends the next page

package logpager

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/markalston/autoclick-dashboard/internal/session"
)

// PageSize is the number of entries fetched per request
const PageSize = 5

// DefaultTimeout bounds a single page fetch
const DefaultTimeout = 30 * time.Second

// LogFetcher reads one page of run history
type LogFetcher interface {
	Logs(ctx context.Context, password string, limit, offset int) (*client.LogPage, error)
}

// PageMsg carries one page back to the event loop
type PageMsg struct {
	gen    uint64
	seq    uint64
	Offset int
	Page   *client.LogPage
	Err    error
}

// Pager holds the fetched entries and the pagination cursor
type Pager struct {
	fetcher  LogFetcher
	sess     *session.Session
	pageSize int
	timeout  time.Duration

	entries []client.LogEntry
	total   int
	offset  int

	seq     uint64
	loading bool
	fetched bool
	notice  string
}

// New creates an empty pager
func New(fetcher LogFetcher, sess *session.Session) *Pager {
	return &Pager{
		fetcher:  fetcher,
		sess:     sess,
		pageSize: PageSize,
		timeout:  DefaultTimeout,
	}
}

// Entries returns the held entries, newest first
func (p *Pager) Entries() []client.LogEntry {
	return p.entries
}

// Total returns the server-reported entry count
func (p *Pager) Total() int {
	return p.total
}

// Offset returns the offset of the last page applied
func (p *Pager) Offset() int {
	return p.offset
}

// Loading reports whether a page request is outstanding
func (p *Pager) Loading() bool {
	return p.loading
}

// HasFetched reports whether any fetch has completed
func (p *Pager) HasFetched() bool {
	return p.fetched
}

// Notice returns the last surfaced error message
func (p *Pager) Notice() string {
	return p.notice
}

// CanLoadMore reports whether more entries exist on the server
func (p *Pager) CanLoadMore() bool {
	return len(p.entries) < p.total
}

// Load fetches the first page and replaces the list
func (p *Pager) Load() tea.Cmd {
	return p.request(0)
}

// Refresh resets to the first page; older appended entries are dropped
func (p *Pager) Refresh() tea.Cmd {
	return p.request(0)
}

// LoadMore fetches the next page for appending
func (p *Pager) LoadMore() tea.Cmd {
	if p.loading || !p.CanLoadMore() {
		return nil
	}
	return p.request(p.offset + p.pageSize)
}

// Reset empties the pager; used on logout
func (p *Pager) Reset() {
	p.entries = nil
	p.total = 0
	p.offset = 0
	p.seq++
	p.loading = false
	p.fetched = false
	p.notice = ""
}

func (p *Pager) request(offset int) tea.Cmd {
	if !p.sess.Authenticated() {
		return nil
	}
	p.seq++
	p.loading = true
	p.notice = ""

	gen, seq := p.sess.Generation(), p.seq
	password := p.sess.Token()
	fetcher, limit, timeout := p.fetcher, p.pageSize, p.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		page, err := fetcher.Logs(ctx, password, limit, offset)
		return PageMsg{gen: gen, seq: seq, Offset: offset, Page: page, Err: err}
	}
}

// Update handles PageMsg; other messages are ignored
func (p *Pager) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(PageMsg); ok {
		return p.Apply(msg)
	}
	return nil
}

// Apply merges a fetched page. Pages superseded by a later request are dropped.
func (p *Pager) Apply(msg PageMsg) tea.Cmd {
	if !p.sess.Valid(msg.gen) || msg.seq != p.seq {
		return nil
	}
	p.loading = false
	p.fetched = true

	if msg.Err != nil {
		if client.IsUnauthorized(msg.Err) {
			if p.sess.Logout() {
				slog.Warn("Log fetch rejected credentials, logging out")
				return func() tea.Msg { return session.LoggedOutMsg{Source: "logs"} }
			}
			return nil
		}
		if apiErr, ok := client.AsAPIError(msg.Err); ok {
			p.notice = apiErr.Message
		} else {
			p.notice = "Failed to fetch logs: " + msg.Err.Error()
		}
		slog.Info("Log fetch failed", "offset", msg.Offset, "error", msg.Err)
		return nil
	}

	if msg.Page == nil {
		return nil
	}
	if msg.Offset == 0 {
		p.entries = append([]client.LogEntry(nil), msg.Page.Logs...)
	} else {
		p.entries = append(p.entries, msg.Page.Logs...)
	}
	p.offset = msg.Offset
	p.total = msg.Page.Total
	return nil
}

// FetchAll walks every page synchronously for headless callers
func FetchAll(ctx context.Context, fetcher LogFetcher, password string, pageSize int) ([]client.LogEntry, int, error) {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	var entries []client.LogEntry
	total := 0
	for offset := 0; ; offset += pageSize {
		page, err := fetcher.Logs(ctx, password, pageSize, offset)
		if err != nil {
			return entries, total, err
		}
		entries = append(entries, page.Logs...)
		total = page.Total
		if len(page.Logs) == 0 || len(entries) >= total {
			return entries, total, nil
		}
	}
}

// FormatDuration renders seconds as "Xm SSs", or "-" when unknown
func FormatDuration(seconds *float64) string {
	if seconds == nil || math.IsNaN(*seconds) || *seconds < 0 {
		return "-"
	}
	total := int(math.Round(*seconds))
	return fmt.Sprintf("%dm %02ds", total/60, total%60)
}

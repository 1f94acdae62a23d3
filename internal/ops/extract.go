// internal/ops/extract.go
package ops

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"segul/internal/cliutil"
	"segul/internal/runner"
	"segul/internal/writers"

	"segul-core/seq"
	"segul-core/seqerr"
	"segul-core/seqio"
)

// Matcher decides whether a taxon id is selected.
type Matcher struct {
	ids map[string]struct{}
	re  *regexp.Regexp
}

// NewIDMatcher selects exact ids.
func NewIDMatcher(ids []string) *Matcher {
	m := &Matcher{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		m.ids[strings.TrimSpace(id)] = struct{}{}
	}
	return m
}

// NewRegexMatcher selects ids matching an RE2 pattern, so matching stays
// linear-time on hostile inputs.
func NewRegexMatcher(pattern string) (*Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Matcher{re: re}, nil
}

// MatcherFromFile selects the ids listed one per line in path.
func MatcherFromFile(path string) (*Matcher, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	var ids []string
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			ids = append(ids, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewIDMatcher(ids), nil
}

// Match reports whether id is selected.
func (m *Matcher) Match(id string) bool {
	if m.re != nil {
		return m.re.MatchString(id)
	}
	_, ok := m.ids[id]
	return ok
}

// requested returns the literal ids this matcher asked for, empty for regex.
func (m *Matcher) requested() []string {
	out := make([]string, 0, len(m.ids))
	for id := range m.ids {
		out = append(out, id)
	}
	return out
}

// ExtractOptions configures Extract and Remove; Invert flips the selection.
type ExtractOptions struct {
	Input
	Matcher   *Matcher
	Invert    bool // true removes matches instead of keeping them
	OutputDir string
	OutFormat seqio.OutputFormat
}

// Extract keeps (or, inverted, removes) matching taxa per alignment.
// Alignments left without taxa are skipped. Requested ids never seen across
// the whole dataset are warnings, not errors.
func Extract(ctx context.Context, env Env, opt ExtractOptions) (int, error) {
	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
	)
	results, err := runner.Map(ctx, runner.Options{Threads: env.Threads, Progress: env.Progress}, opt.Files,
		func(file string) (int, error) {
			res, rdErr := seqio.ReadFile(file, opt.Format, opt.Datatype, func(m string) { env.warnf("%s: %s", file, m) })
			if rdErr != nil {
				return 0, rdErr
			}
			out := seq.NewAlignment(opt.Datatype)
			for _, rec := range res.Alignment.Records() {
				matched := opt.Matcher.Match(rec.ID)
				if matched {
					mu.Lock()
					seen[rec.ID] = true
					mu.Unlock()
				}
				if matched == opt.Invert {
					continue
				}
				if _, err := out.Insert(rec); err != nil {
					return 0, &seqerr.DuplicateIDError{File: file, ID: rec.ID}
				}
			}
			if out.Len() == 0 {
				return 0, nil
			}
			sf := writers.SeqFile{
				Path:      filepath.Join(opt.OutputDir, cliutil.Stem(file)+opt.OutFormat.Extension()),
				Format:    opt.OutFormat,
				Overwrite: env.Overwrite,
				Prompt:    env.Prompt,
			}
			if err := sf.Write(out); err != nil {
				return 0, err
			}
			return 1, nil
		})
	if err != nil {
		return 0, err
	}
	for _, id := range opt.Matcher.requested() {
		if !seen[id] {
			env.warnf("id %q not found in any input", id)
		}
	}
	written := 0
	for _, r := range results {
		written += r.Value
	}
	if written == 0 {
		return 0, seqerr.ErrEmptyResult
	}
	return written, nil
}

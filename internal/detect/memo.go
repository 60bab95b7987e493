package detect

import (
	"github.com/bokehbridge/bokehbridge/internal/theme"
)

// DataMemo memoizes the chart definition one widget instance last rendered
// successfully. Instances never share a memo.
//
// Comparison is plain string equality. The upstream serializer regenerates
// internal object identifiers on every host update even when the chart is
// visually identical, so deep semantic diffing would see phantom changes;
// the byte-equality fast path is the only comparison that is both cheap and
// correct enough here.
type DataMemo struct {
	last   string
	cached *Chart
}

// Check compares the serialized definition against the last committed one.
// On a match it returns the previously parsed chart and changed=false
// without re-parsing. On a difference (or before the first commit) it
// parses and reports changed=true. The memo itself only moves through
// Commit, so a render attempt that fails downstream leaves no trace here.
func (m *DataMemo) Check(serialized string) (chart *Chart, changed bool, err error) {
	if m.cached != nil && serialized == m.last {
		return m.cached, false, nil
	}

	chart, err = ParseChart(serialized)
	if err != nil {
		return nil, false, err
	}
	return chart, true, nil
}

// Commit records the definition as the one on screen. Called only after the
// embed that used it succeeded.
func (m *DataMemo) Commit(serialized string, chart *Chart) {
	m.last = serialized
	m.cached = chart
}

// ThemeMemo memoizes the theme selection one widget instance last applied.
type ThemeMemo struct {
	applied  bool
	name     string
	snapshot string
}

// Check reports whether the theme must be re-applied: true when the
// selection name changed, or when the selection tracks the host and the
// host tokens changed. Named built-in themes are static, so token changes
// alone never invalidate them.
func (m *ThemeMemo) Check(name string, tokens theme.HostTokens) bool {
	return !m.applied ||
		name != m.name ||
		(name == theme.Sentinel && tokens.Fingerprint() != m.snapshot)
}

// Commit records the selection as the one applied on screen.
func (m *ThemeMemo) Commit(name string, tokens theme.HostTokens) {
	m.applied = true
	m.name = name
	m.snapshot = tokens.Fingerprint()
}

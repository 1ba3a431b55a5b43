//go:build unit

package web

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssets(t *testing.T) {
	_, err := fs.Stat(Assets(), "css/site.css")
	assert.NoError(t, err)
}

// The browser script takes its threshold and levels from the markup that
// toc.Entries and toc.VisibleRatio produce, and follows the first link of a
// repeated heading id the way toc.Tracker does.
func TestTOCScript_FollowsServerRules(t *testing.T) {
	src, err := fs.ReadFile(Assets(), "js/toc.js")
	require.NoError(t, err)
	script := string(src)

	assert.Contains(t, script, `getAttribute("data-toc-ratio")`)
	assert.Contains(t, script, `getAttribute("data-toc-level")`)
	assert.Contains(t, script, "if (!byHeading.has(e.heading))")
	assert.Contains(t, script, "e.level > best.level", "strictly deeper wins, earlier heading keeps ties")
	assert.Contains(t, script, "ev.persisted")
}

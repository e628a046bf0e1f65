package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringDropsScriptsAndSplitsBlocks(t *testing.T) {
	got, err := String(`<html><head><title>x</title><style>p{}</style></head>
<body><h1>National   Archives</h1><script>alert(1)</script>
<p>Located in <b>Brussels</b>,
Belgium.</p><div>Open daily</div></body></html>`)
	require.NoError(t, err)

	assert.Equal(t, "National Archives\nLocated in Brussels, Belgium.\nOpen daily", got)
}

func TestStringPlainText(t *testing.T) {
	got, err := String("just text")
	require.NoError(t, err)
	assert.Equal(t, "just text", got)
}

package web

import (
	"bytes"
	"context"
	"testing"

	"github.com/JackWithOneEye/flowcanvas/internal/autoscroll"
	"github.com/JackWithOneEye/flowcanvas/internal/background"
	"github.com/JackWithOneEye/flowcanvas/internal/controls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestIndex(t *testing.T) {
	g := &Globals{
		AutoScroll:  autoscroll.DefaultConfig(),
		Zoom:        controls.DefaultPanel(),
		Background:  background.DefaultPattern(),
		SessionPath: "/session",
	}
	var b bytes.Buffer
	require.NoError(t, Index(g).Render(context.Background(), &b))
	body := b.String()

	_, err := html.Parse(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)

	assert.Contains(t, body, `id="viewport"`)
	assert.Contains(t, body, `id="zoom-label">100%`)
	assert.Contains(t, body, `draggable="true">Task`)
	assert.Contains(t, body, `&#34;sessionPath&#34;:&#34;/session&#34;`)
	assert.Contains(t, body, `<head>`)
	assert.Contains(t, body, `id="node-decide"`)
	assert.Contains(t, body, `left:760px;top:80px`)
}

func TestIndexEscapesGlobals(t *testing.T) {
	g := &Globals{SessionPath: `/s"><script>alert(1)</script>`}
	var b bytes.Buffer
	require.NoError(t, Index(g).Render(context.Background(), &b))
	assert.NotContains(t, b.String(), "<script>alert(1)")
	assert.Contains(t, b.String(), `data-globals="{`)
}

// Package livereload reloads open browser tabs when served assets change.
package livereload

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type livereloadInjectorWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w livereloadInjectorWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w livereloadInjectorWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

// InjectScript wraps an HTML handler and appends the reload client to the
// <head> of every successful response. The client connects to path.
func InjectScript(path string, handlerFunc gin.HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		w := &livereloadInjectorWriter{
			body:           &bytes.Buffer{},
			ResponseWriter: ctx.Writer,
		}
		ctx.Writer = w
		handlerFunc(ctx)
		ctx.Writer = w.ResponseWriter
		if w.Status() != http.StatusOK {
			_, _ = w.ResponseWriter.Write(w.body.Bytes())
			return
		}

		if err := inject(w.ResponseWriter, w.body.Bytes(), path); err != nil {
			logrus.Errorf("could not inject livereload script: %s", err)
			_, _ = w.ResponseWriter.Write(w.body.Bytes())
		}
	}
}

func inject(dst gin.ResponseWriter, body []byte, path string) error {
	b := &bytes.Buffer{}
	err := livereloadScriptTemplate.Execute(b, &livereloadScriptConfig{Path: path, RetryInterval: 500, MaxRetries: 10})
	if err != nil {
		return err
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return err
	}

	c := b.String()
	if err := injectScriptIntoHead(doc.FirstChild, &c); err != nil {
		return err
	}
	return html.Render(dst, doc)
}

func injectScriptIntoHead(n *html.Node, content *string) error {
	if n == nil {
		return errors.New("no <head> element node found")
	}

	if n.Type == html.ElementNode && n.Data == "head" {
		scriptNode := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Script,
			Data:     atom.Script.String(),
			FirstChild: &html.Node{
				Type: html.TextNode,
				Data: *content,
			},
		}
		n.AppendChild(scriptNode)
		return nil
	}

	next := n.FirstChild
	if next == nil {
		next = n.NextSibling
	}

	return injectScriptIntoHead(next, content)
}

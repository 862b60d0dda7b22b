package live

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// snapshotPolicy keeps the markup components render and drops scripts,
// inline handlers and unsafe URLs from published pages.
var snapshotPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("main", "header", "footer", "section", "nav", "article", "aside",
		"form", "label", "button", "input", "select", "option", "textarea")
	p.AllowAttrs("class", "type", "name", "placeholder", "value",
		"disabled", "checked", "selected", "readonly", "required").Globally()
	return p
}()

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<div id="root">{{.Body}}</div>
{{if .Live}}<script>{{.Script}}</script>
{{end}}</body>
</html>
`))

// clientScript keeps #root in sync with the server and forwards events on
// data-node elements. Focus and caret survive re-renders by node ID.
const clientScript = `
(function() {
    'use strict';

    var root = document.getElementById('root');
    var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
    var ws = new WebSocket(protocol + '//' + location.host + '/ws');

    ws.onmessage = function(e) {
        var msg = JSON.parse(e.data);
        if (msg.type === 'error') {
            console.error('[fiber]', msg.error);
            return;
        }
        var active = document.activeElement;
        var focused = active && active.dataset ? active.dataset.node : null;
        var caret = focused && 'selectionStart' in active ? active.selectionStart : null;

        root.innerHTML = msg.html;
        if (msg.ops) {
            console.debug('[fiber] #' + msg.seq, msg.ops.join('\n'));
        }

        if (focused) {
            var el = root.querySelector('[data-node="' + focused + '"]');
            if (el) {
                el.focus();
                if (caret !== null && el.setSelectionRange) {
                    el.setSelectionRange(caret, caret);
                }
            }
        }
    };

    function send(type, e) {
        var el = e.target.closest('[data-node]');
        if (!el || ws.readyState !== WebSocket.OPEN) {
            return;
        }
        ws.send(JSON.stringify({
            type: type,
            node: parseInt(el.dataset.node, 10),
            value: 'value' in e.target ? String(e.target.value) : '',
            key: e.key || ''
        }));
    }

    ['click', 'input', 'change', 'keydown', 'keyup'].forEach(function(type) {
        root.addEventListener(type, function(e) { send(type, e); });
    });
    root.addEventListener('submit', function(e) {
        e.preventDefault();
        send('submit', e);
    });
})();
`

type pageData struct {
	Title  string
	Body   template.HTML
	Live   bool
	Script template.JS
}

// LivePage renders a page around body that connects back to the session.
func LivePage(title, body string) ([]byte, error) {
	return renderPage(pageData{Title: title, Body: template.HTML(body), Live: true, Script: template.JS(clientScript)})
}

// StaticPage renders a self-contained page around a sanitized copy of body.
func StaticPage(title, body string) ([]byte, error) {
	return renderPage(pageData{Title: title, Body: template.HTML(Sanitize(body))})
}

// Sanitize strips markup that is unsafe to serve from a public location.
func Sanitize(body string) string {
	return snapshotPolicy.Sanitize(body)
}

func renderPage(data pageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// SnapshotName names the snapshot taken after seq commits.
func SnapshotName(seq uint64) string {
	return fmt.Sprintf("snapshot-%06d.html", seq)
}

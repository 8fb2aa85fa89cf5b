package main

import (
	"html"
	"io"
	"strings"

	"github.com/sznuper/bettertiles/internal/view"
)

const documentHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>%TITLE%</title>
<style>
body{font-family:sans-serif;font-size:13px;background:#f4f5f7;color:#1c1c1c;margin:16px}
table.tiled td.tiles{display:flex;flex-wrap:wrap;gap:8px}
.tile{width:160px;background:#ccc}
.hhstate0,.sstate0{background:#13d389}
.sstate1{background:#ffd703}
.hhstate1,.sstate2{background:#ff5476}
.hhstate2,.sstate3{background:#ff9664}
.hhstatep,.sstatep{background:#bfc5cb}
td.count.state0{color:#13d389}
td.count.state1{color:#ffd703}
td.count.state2{color:#ff5476}
td.count.state3{color:#ff9664}
</style>
</head>
<body>
`

const documentTail = "</body>\n</html>\n"

// writeDocument wraps the output of body in a standalone HTML page.
func writeDocument(w io.Writer, title string, body func(io.Writer) view.Result) view.Result {
	head := strings.Replace(documentHead, "%TITLE%", html.EscapeString(title), 1)
	_, _ = io.WriteString(w, head)
	res := body(w)
	_, _ = io.WriteString(w, documentTail)
	return res
}

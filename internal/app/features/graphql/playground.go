package graphql

import (
	"bytes"
	"html/template"
	"net/http"
)

// GraphiQLVersion pins the playground assets loaded from the CDN.
const GraphiQLVersion = "3.0.10"

// PlaygroundOption adjusts the rendered playground page.
type PlaygroundOption func(*playgroundConfig)

type playgroundConfig struct {
	title   string
	version string
}

// WithTitle sets the page title.
func WithTitle(title string) PlaygroundOption {
	return func(c *playgroundConfig) { c.title = title }
}

// WithVersion pins a different GraphiQL release.
func WithVersion(version string) PlaygroundOption {
	return func(c *playgroundConfig) { c.version = version }
}

// Playground returns a handler serving the GraphiQL page wired to endpoint.
// The page is rendered once, here.
func Playground(endpoint string, opts ...PlaygroundOption) http.HandlerFunc {
	c := &playgroundConfig{title: "YelpCamp GraphQL", version: GraphiQLVersion}
	for _, opt := range opts {
		opt(c)
	}

	var buf bytes.Buffer
	err := playgroundPage.Execute(&buf, map[string]string{
		"title":    c.title,
		"endpoint": endpoint,
		"version":  c.version,
	})
	if err != nil {
		panic(err)
	}
	out := buf.Bytes()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(out)
	}
}

var playgroundPage = template.Must(template.New("graphiql").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@{{.version}}/graphiql.min.css" />
  <style>body { margin: 0; height: 100vh; } #graphiql { height: 100vh; }</style>
</head>
<body>
  <div id="graphiql">Loading...</div>
  <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql@{{.version}}/graphiql.min.js"></script>
  <script>
    const fetcher = GraphiQL.createFetcher({ url: location.origin + {{.endpoint}} });
    ReactDOM.createRoot(document.getElementById("graphiql"))
      .render(React.createElement(GraphiQL, { fetcher: fetcher }));
  </script>
</body>
</html>
`))

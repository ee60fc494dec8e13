package topics

// Renderer formats topic content for display. format is the topic file
// extension, including the dot.
type Renderer interface {
	Render(content string, format string) string
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(content, format string) string

// Render implements Renderer
func (f RendererFunc) Render(content, format string) string {
	return f(content, format)
}

// PlainRenderer returns content unchanged
type PlainRenderer struct{}

// Render implements Renderer
func (r *PlainRenderer) Render(content string, format string) string {
	return content
}

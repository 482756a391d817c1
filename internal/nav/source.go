package nav

// ContentLoader is the slice of the markdown loader the router sources
// need.
type ContentLoader interface {
	Load(section string) (string, bool)
	Invalidate(section string)
}

// StaticLoader is the slice of the loader static sections need.
type StaticLoader interface {
	LoadStatic(section string) (string, bool)
}

// StaticSource serves a prebuilt HTML partial for a section.
func StaticSource(loader StaticLoader, section string) RenderFunc {
	return func(Route) (string, bool) {
		return loader.LoadStatic(section)
	}
}

// MarkdownSource renders a fixed markdown section, ignoring any detail
// segment. Repeat visits are served from the loader's cache.
func MarkdownSource(loader ContentLoader, section string) RenderFunc {
	return func(Route) (string, bool) {
		return loader.Load(section)
	}
}

// ProjectSource renders the section index when no detail is present and a
// project page beneath projectDir otherwise. Project pages skip the cache
// so edits show up on the next visit.
func ProjectSource(loader ContentLoader, section, projectDir string) RenderFunc {
	return func(route Route) (string, bool) {
		if !route.HasDetail() {
			return loader.Load(section)
		}
		path := projectDir + "/" + route.Detail
		loader.Invalidate(path)
		return loader.Load(path)
	}
}

package chiext

import (
	"io/fs"
	"net/http"
	"strings"
)

type StaticFSConfig struct {
	FileSystem fs.FS
	Root       string
}

// StaticEmbedFS serves the files and folders of the given filesystem, with
// index.html at "/". Other requests fall through to next.
func StaticEmbedFS(config StaticFSConfig) (func(next http.Handler) http.Handler, error) {
	if config.Root != "" {
		fsys, err := fs.Sub(config.FileSystem, config.Root)
		if err != nil {
			return nil, err
		}
		config.FileSystem = fsys
	}

	files, err := fs.ReadDir(config.FileSystem, ".")
	if err != nil {
		return nil, err
	}

	routes := []string{}
	for _, f := range files {
		routes = append(routes, "/"+f.Name())
	}

	fsHandler := http.FileServer(http.FS(config.FileSystem))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			if r.URL.Path == "/" {
				fsHandler.ServeHTTP(w, r)
				return
			}
			for _, route := range routes {
				if r.URL.Path == route || strings.HasPrefix(r.URL.Path, route+"/") {
					fsHandler.ServeHTTP(w, r)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

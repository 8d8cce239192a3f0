package apihelpers

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/gin-gonic/gin"
)

// WriteRoutesToFile dumps the registered routes, used in debug mode only.
func WriteRoutesToFile(router *gin.Engine, filename string) {
	file, err := os.Create(filename)
	if err != nil {
		slog.Error("Failed to create routes file", slog.String("filename", filename), slog.String("error", err.Error()))
		return
	}
	defer file.Close()

	routes := router.Routes()
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	for _, route := range routes {
		if _, err := file.WriteString(fmt.Sprintf("%s\t%s\n", route.Method, route.Path)); err != nil {
			slog.Error("Failed to write route to file", slog.String("error", err.Error()))
			return
		}
	}
}

package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hidenorly/video-annotations-to-yolo/pkg/utils"
)

//SetRouter builds the review server routes for a finished export. The server is
//read only: it lists and serves the label files, images and class list under
//given dataset base directory so an export can be inspected from a browser
func SetRouter(datasetBase string) *gin.Engine {
	r := gin.Default()

	//serve the exported tree directly (images/, labels/, classes.txt)
	r.Static("/dataset", datasetBase)

	apiRoutes := r.Group("/api")

	apiRoutes.GET("/Classes", func(ctx *gin.Context) {
		content, err := os.ReadFile(filepath.Join(datasetBase, "classes.txt"))
		if err != nil {
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusOK, strings.Split(strings.TrimRight(string(content), "\n"), "\n"))
	})

	apiRoutes.GET("/LabelFilesNames", func(ctx *gin.Context) {
		if names, err := utils.ListDir(filepath.Join(datasetBase, "labels")); err != nil {
			ctx.Status(http.StatusInternalServerError)
		} else {
			ctx.JSON(http.StatusOK, names)
		}
	})

	apiRoutes.GET("/ImagesNames", func(ctx *gin.Context) {
		if names, err := utils.ListDir(filepath.Join(datasetBase, "images")); err != nil {
			ctx.Status(http.StatusInternalServerError)
		} else {
			ctx.JSON(http.StatusOK, names)
		}
	})

	apiRoutes.GET("/Label", func(ctx *gin.Context) {
		labelName := ctx.Request.URL.Query().Get("name")
		if labelName == "" {
			ctx.Status(http.StatusNotAcceptable) //missing url parameter
			return
		}

		labelsDir := filepath.Join(datasetBase, "labels")
		if existNames, err := utils.ListDir(labelsDir); err != nil {
			ctx.Status(http.StatusInternalServerError)
			return
		} else if !utils.InSlice(labelName, existNames) {
			ctx.Status(http.StatusNotFound)
			return
		}

		ctx.Header("Content-Type", "text/plain")
		http.ServeFile(ctx.Writer, ctx.Request, filepath.Join(labelsDir, labelName))
	})

	return r
}

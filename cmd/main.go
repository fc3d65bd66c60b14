package main

import (
	"log"
	"os"

	"github.com/hidenorly/video-annotations-to-yolo/pkg/annotation"
	"github.com/hidenorly/video-annotations-to-yolo/pkg/api"
	"github.com/hidenorly/video-annotations-to-yolo/pkg/dataset"
	"github.com/hidenorly/video-annotations-to-yolo/pkg/video"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	pflag.StringP("json", "j", "", "Path to JSON-MIN annotations exported from Label Studio")
	pflag.StringP("videos", "v", "", "Optional path to a directory holding the source videos. If provided, corresponding frames will be extracted.")
	pflag.StringP("output", "o", "output/", "Path to output base directory")
	pflag.Bool("serve", false, "Serve the exported dataset over HTTP once the export finishes")
	pflag.Parse()

	viper.SetDefault("export.image-ext", "jpg")
	viper.SetDefault("export.include-final-keyframe", false)
	viper.SetDefault("http.port", "8080")

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Error: Could not read config file, got '%v'", err)
		}
	}

	viper.BindPFlag("annotations.json", pflag.Lookup("json"))
	viper.BindPFlag("directory.videos", pflag.Lookup("videos"))
	viper.BindPFlag("directory.root", pflag.Lookup("output"))
	viper.BindPFlag("http.serve", pflag.Lookup("serve"))

	if viper.GetString("annotations.json") == "" {
		log.Fatalf("Error: Missing path to JSON annotations (--json)")
	}

	log.Printf("Parsing annotations from '%s'", viper.GetString("annotations.json"))
	videos, err := annotation.Load(viper.GetString("annotations.json"))
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	annotation.ResolveVideoPaths(videos, viper.GetString("directory.videos"))

	registry, err := annotation.BuildRegistry(videos)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	log.Printf("labels = %v", registry.Labels())

	//first - create project's data root dir
	outputBase := viper.GetString("directory.root")
	if _, err := os.Stat(outputBase); err != nil {
		if os.IsNotExist(err) {
			if os.MkdirAll(outputBase, 0766) != nil {
				log.Fatalf("Error Creating '%s' directory, got '%v'", outputBase, err)
			}
		}
	}

	exporter, err := dataset.NewExporter(videos, registry, video.NewExtractor(), dataset.Options{
		OutputBase:           outputBase,
		ImageExt:             viper.GetString("export.image-ext"),
		IncludeFinalKeyframe: viper.GetBool("export.include-final-keyframe"),
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	total, err := exporter.Export()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	log.Printf("Process finished successfully, exported %d frames", total)

	if viper.GetBool("http.serve") {
		r := api.SetRouter(outputBase)
		if err := r.Run(":" + viper.GetString("http.port")); err != nil {
			log.Fatalf("Error: Got '%v'", err)
		}
	}
}

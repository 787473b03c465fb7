// xsitool is a CLI utility for working with Battlezone II XSI model files.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/frutesoft/bz2xsi"
	"github.com/frutesoft/bz2xsi/internal/config"
	"github.com/frutesoft/bz2xsi/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "materials", "mat":
		cmdMaterials(args)
	case "validate", "check":
		cmdValidate(args)
	case "fmt":
		cmdFmt(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`xsitool - Battlezone II XSI model utility

Usage:
  xsitool <command> [options] <file.xsi>

Commands:
  info <file.xsi>                Show model information
  materials <file.xsi>           Dump materials (YAML, -json for JSON)
  validate <file.xsi>            Validate geometry, materials, and textures
  fmt <file.xsi>                 Reformat a model file

Options:
  -config <path>                 Config file (default ./xsitool.yaml)
  -debug                         Enable debug logging

Examples:
  xsitool info avtank00.xsi
  xsitool materials -json avtank00.xsi
  xsitool validate -textures ./textures avtank00.xsi
  xsitool fmt -o clean.xsi avtank00.xsi`)
}

// setup loads the config, initializes logging, and parses the model named
// by the flag set's first argument.
func setup(fs *flag.FlagSet, configPath string, debug bool) (*bz2xsi.XSI, *config.Config) {
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: xsitool %s [options] <file.xsi>\n", fs.Name())
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if debug {
		cfg.Logging.Level = "debug"
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)

	x, err := bz2xsi.DecodeFile(fs.Arg(0), &bz2xsi.ParseOptions{Logger: logger.Log})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	return x, cfg
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Parse(args)

	x, _ := setup(fs, *configPath, *debug)
	defer logger.Sync()

	frames := x.AllFrames()
	meshes := x.Meshes()

	var vertices, faces int
	materials := map[bz2xsi.Material]struct{}{}
	textures := map[string]struct{}{}
	for _, mesh := range meshes {
		vertices += len(mesh.Vertices)
		faces += len(mesh.Faces)

		_, meshMaterials := mesh.MaterialIndices()
		for _, mat := range meshMaterials {
			materials[mat] = struct{}{}
			if mat.IsTextured() {
				textures[mat.Texture] = struct{}{}
			}
		}
	}

	fmt.Printf("Model:     %s\n", x.Name)
	fmt.Printf("Frames:    %d (%d root)\n", len(frames), len(x.Frames))
	fmt.Printf("Meshes:    %d\n", len(meshes))
	fmt.Printf("Vertices:  %d\n", vertices)
	fmt.Printf("Faces:     %d\n", faces)
	fmt.Printf("Materials: %d (%d textured)\n", len(materials), len(textures))
	fmt.Printf("Animated:  %v\n", x.IsAnimated())
	fmt.Printf("Skinned:   %v", x.IsSkinned())
	if x.IsSkinned() {
		fmt.Printf(" (%d envelopes, %d bones)", x.EnvelopeCount(), len(x.BoneFrames()))
	}
	fmt.Println()
	if len(x.Lights) > 0 {
		fmt.Printf("Lights:    %d\n", len(x.Lights))
	}
	if len(x.Cameras) > 0 {
		fmt.Printf("Cameras:   %d\n", len(x.Cameras))
	}

	for _, frame := range x.Frames {
		printFrameTree(frame, 0)
	}
}

func printFrameTree(frame *bz2xsi.Frame, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}

	marks := ""
	if frame.Mesh != nil {
		marks += " [mesh]"
	}
	if len(frame.AnimationKeys) > 0 {
		marks += " [anim]"
	}
	if frame.IsBone {
		marks += " [bone]"
	}

	fmt.Printf("  %s%s%s\n", indent, frame.Name, marks)
	for _, child := range frame.Frames {
		printFrameTree(child, depth+1)
	}
}

func cmdMaterials(args []string) {
	fs := flag.NewFlagSet("materials", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path")
	debug := fs.Bool("debug", false, "Enable debug logging")
	asJSON := fs.Bool("json", false, "Output JSON instead of YAML")
	fs.Parse(args)

	x, _ := setup(fs, *configPath, *debug)
	defer logger.Sync()

	type meshMaterials struct {
		Frame     string            `json:"frame" yaml:"frame"`
		Materials []bz2xsi.Material `json:"materials" yaml:"materials"`
	}

	var out []meshMaterials
	for _, frame := range x.AllFrames() {
		if frame.Mesh == nil {
			continue
		}
		if _, materials := frame.Mesh.MaterialIndices(); len(materials) > 0 {
			out = append(out, meshMaterials{Frame: frame.Name, Materials: materials})
		}
	}

	if *asJSON {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(string(data))
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path")
	debug := fs.Bool("debug", false, "Enable debug logging")
	textures := fs.String("textures", "", "Texture directory (overrides config)")
	recursive := fs.Bool("r", false, "Search texture directories recursively")
	fs.Parse(args)

	x, cfg := setup(fs, *configPath, *debug)
	defer logger.Sync()

	opt := &bz2xsi.ValidateOptions{
		SearchDirs:              cfg.Textures.SearchDirs,
		Extensions:              cfg.Textures.Extensions,
		Recursive:               cfg.Textures.Recursive || *recursive,
		DisableFileCheck:        cfg.Validate.SkipFileCheck,
		DisableExtensionsCheck:  cfg.Validate.SkipExtensionsCheck,
		DisableShadingTypeCheck: cfg.Validate.SkipShadingTypeCheck,
		DisableImageProbe:       cfg.Validate.SkipImageProbe,
	}
	if *textures != "" {
		opt.SearchDirs = []string{*textures}
	}

	issues := bz2xsi.Validate(x, opt)
	if len(issues) == 0 {
		fmt.Println("OK")
		return
	}

	errors := 0
	for _, issue := range issues {
		if issue.Level == bz2xsi.IssueError {
			errors++
		}
		if issue.Path != "" {
			fmt.Printf("%s: %s (%s)\n", issue.Level, issue.Message, issue.Path)
		} else {
			fmt.Printf("%s: %s\n", issue.Level, issue.Message)
		}
	}

	fmt.Printf("%d issues (%d errors)\n", len(issues), errors)
	if errors > 0 {
		os.Exit(1)
	}
}

func cmdFmt(args []string) {
	fs := flag.NewFlagSet("fmt", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path")
	debug := fs.Bool("debug", false, "Enable debug logging")
	output := fs.String("o", "", "Output file (default stdout)")
	fs.Parse(args)

	x, cfg := setup(fs, *configPath, *debug)
	defer logger.Sync()

	opt := &bz2xsi.FormatOptions{Indent: cfg.Output.Indent}

	if *output != "" {
		if err := bz2xsi.EncodeFile(*output, x, opt); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := bz2xsi.Encode(os.Stdout, x, opt); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

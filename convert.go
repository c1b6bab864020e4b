package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wahoo2garmin/garmin"
	"wahoo2garmin/generator"
	"wahoo2garmin/workout"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a workout text file and optionally upload it",
	Long: `Reads a Wahoo workout export, generates a validated workout via the
configured LLM (retrying with error feedback on invalid output), writes the
expression and its JSON form next to --out, and uploads to Garmin Connect
when --upload is set.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("input", "", "path to the workout text file (required)")
	convertCmd.Flags().String("type", "", "workout type: swimming, running, cycling, walking, or hiking (default: auto-detect)")
	convertCmd.Flags().String("out", "generated_workout.txt", "path for the generated workout expression")
	convertCmd.Flags().Int("max-retries", 0, "maximum generation attempts (default from config, else 3)")
	convertCmd.Flags().Bool("upload", false, "upload the validated workout to Garmin Connect")
	_ = convertCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := buildLogger(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	inputPath, _ := cmd.Flags().GetString("input")
	typeFlag, _ := cmd.Flags().GetString("type")
	outPath, _ := cmd.Flags().GetString("out")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	upload, _ := cmd.Flags().GetBool("upload")

	sport, err := workout.ParseSport(typeFlag)
	if err != nil {
		return err
	}
	text, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	llm, err := buildLLM(cfg)
	if err != nil {
		return err
	}
	if maxRetries == 0 {
		maxRetries = cfg.MaxRetries
	}
	sink := generator.NewFileSink(outPath)
	conv, err := generator.NewConverter(llm, sink, log, maxRetries)
	if err != nil {
		return err
	}

	ctx := context.Background()
	w, err := conv.ConvertWithRetry(ctx, string(text), sport)
	if err != nil {
		return err
	}

	fmt.Println(w.Summary())
	fmt.Printf("expression: %s\njson: %s\n", sink.ArtifactPath, sink.WorkoutPath)

	if !upload {
		return nil
	}

	client, err := garmin.New(cfg, nil, log)
	if err != nil {
		return err
	}
	workoutID, err := client.UploadWorkout(ctx, w)
	if err != nil {
		return err
	}
	fmt.Printf("uploaded: workout id %s\n", workoutID)
	return nil
}

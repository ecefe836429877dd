package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/schedkit/schedkit/internal/render"
	"github.com/schedkit/schedkit/pkg/ilp"
	"github.com/schedkit/schedkit/pkg/model"
)

var (
	validSolvers = []string{"cpsat", "gophersat"}
	solvers      = map[string]func(timeout time.Duration) ilp.Solver{
		"cpsat":     ilp.NewCpsatSolver,
		"gophersat": ilp.NewGophersatSolver,
	}
)

// dumpingSolver writes the finalized model in OPB form before delegating the
// solve to the wrapped backend.
type dumpingSolver struct {
	inner ilp.Solver
	file  string
}

func (solver dumpingSolver) Solve(ilpModel ilp.Model) (ilp.Solution, error) {
	if err := os.WriteFile(solver.file, []byte(ilpModel.ToOPB()), 0666); err != nil {
		return ilp.Solution{}, fmt.Errorf("cannot write model dump: %v", err)
	}
	return solver.inner.Solve(ilpModel)
}

func main() {
	configure()

	// Define arguments
	solverPtr := flag.String("solver", viper.GetString("solver"), "Solver backend to use. Allowed values are: \"cpsat\" and \"gophersat\", where \"cpsat\" is the default")
	timeoutPtr := flag.Duration("timeout", viper.GetDuration("timeout"), "Wall-clock budget for the solve, where 30s is the default")
	filePathPtr := flag.String("file", "", "Path to the input file")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	jsonPtr := flag.Bool("json", false, "Emit the schedule as JSON instead of a table")
	dumpPtr := flag.String("dump", "", "Path to write the finalized model in OPB form before solving")
	flag.Parse()
	solverName := strings.ToLower(*solverPtr)
	timeout := *timeoutPtr
	filePath := *filePathPtr
	outFile := *outFilePathPtr
	jsonOutput := *jsonPtr
	dumpFile := *dumpPtr

	// Validate arguments
	if !slices.Contains(validSolvers, solverName) {
		log.Fatalf("%v is not a valid solver", solverName)
	} else if filePath == "" {
		log.Fatal("an input file must be specified")
	} else if timeout <= 0 {
		log.Fatalf("timeout must be positive: %v", timeout)
	}

	// Extract input
	input, err := model.InputFromJSON(filePath)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	// Initialize engines
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	solver := solvers[solverName](timeout)
	if dumpFile != "" {
		solver = dumpingSolver{inner: solver, file: dumpFile}
	}
	scheduler := model.NewScheduler(solver, logger)

	// Build schedule
	schedule, err := scheduler.BuildAndSolve(input)
	if err != nil {
		log.Fatalf("an error occurred during schedule construction: %v", err)
	} else if schedule == nil {
		fmt.Println("No schedule found within the time budget")
		os.Exit(20)
	}

	// Verify schedule consistency
	if !scheduler.Verify(schedule, input) {
		fmt.Printf("Variables: %v\n", schedule.Variables)
		fmt.Printf("Constraints: %v\n", schedule.Constraints)
		os.Exit(15)
	}

	// Build output from schedule
	output, err := renderOutput(schedule, jsonOutput)
	if err != nil {
		log.Fatalf("an error occurred while building the output: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if outFile == "" {
		fmt.Print(output)
	} else {
		if err := os.WriteFile(outFile, []byte(output), 0666); err != nil {
			log.Fatalf("an error occurred while writing to the output file: %v", err)
		}
	}

	fmt.Printf("Variables: %v\n", schedule.Variables)
	fmt.Printf("Constraints: %v\n", schedule.Constraints)
	os.Exit(10)
}

func renderOutput(schedule *model.Schedule, jsonOutput bool) (string, error) {
	if jsonOutput {
		contents, err := json.MarshalIndent(schedule, "", "  ")
		if err != nil {
			return "", err
		}
		return string(contents) + "\n", nil
	}

	var builder strings.Builder
	if err := render.Schedule(&builder, schedule); err != nil {
		return "", err
	}
	fmt.Fprintf(&builder, "\nTotal slack: %v\n", schedule.TotalSlack)
	if len(schedule.Violations) > 0 {
		fmt.Fprintf(&builder, "Relaxed rules:\n%v\n", render.Violations(schedule.Violations))
	}
	return builder.String(), nil
}

// configure layers the defaults that flags fall back to: explicit flags win,
// then SCHEDKIT_* environment variables, then an optional schedkit.yaml, then
// the built-in values.
func configure() {
	godotenv.Load()

	viper.SetConfigName("schedkit")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("schedkit")
	viper.AutomaticEnv()

	viper.SetDefault("solver", "cpsat")
	viper.SetDefault("timeout", ilp.DefaultTimeout)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatalf("cannot read config file: %v", err)
		}
	}
}

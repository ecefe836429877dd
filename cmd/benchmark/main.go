package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schedkit/schedkit/pkg/ilp"
	"github.com/schedkit/schedkit/pkg/model"
)

const resultsFile = "benchmark_results.csv"

type SolverType int

const (
	gophersat SolverType = iota
	cpsat
)

type ResultType int

const (
	solved ResultType = iota
	relaxed
	timeout
)

var (
	solverTypes = map[SolverType]string{
		gophersat: "gophersat",
		cpsat:     "cpsat",
	}
	solverConstructors = map[SolverType]func(timeout time.Duration) ilp.Solver{
		gophersat: ilp.NewGophersatSolver,
		cpsat:     ilp.NewCpsatSolver,
	}
	resultTypes = map[ResultType]string{
		solved:  "solved",
		relaxed: "relaxed",
		timeout: "timeout",
	}
)

type TestMetadata struct {
	Name             string
	Batches          int
	SubjectsPerBatch int
	Teachers         int
	Rooms            int
}

type testCase struct {
	meta  TestMetadata
	input model.ScheduleInput
}

type BenchmarkResult struct {
	Solver      SolverType
	Test        TestMetadata
	Duration    int64
	Variables   int
	Constraints int
	TotalSlack  int64
	Result      ResultType
}

func main() {
	tests := getTests()
	solvers := getSolvers()
	results := make([]BenchmarkResult, 0, len(tests)*len(solvers))

	for _, test := range tests {
		for _, solver := range solvers {
			fmt.Printf("Benchmarking test \"%v\" with solver \"%v\"\n", test.meta.Name, solverTypes[solver])

			results = append(results, measure(solver, test))
		}
	}

	toCsv(results)
}

// getTests generates one shared instance per size so every solver faces the
// same problem.
func getTests() []testCase {
	sizes := [][4]int{
		{1, 3, 2, 1},
		{2, 4, 3, 2},
		{4, 5, 6, 3},
		{6, 6, 10, 4},
	}

	tests := make([]testCase, 0, len(sizes))
	for _, size := range sizes {
		meta := TestMetadata{
			Name:             fmt.Sprintf("b%v-s%v-t%v-r%v", size[0], size[1], size[2], size[3]),
			Batches:          size[0],
			SubjectsPerBatch: size[1],
			Teachers:         size[2],
			Rooms:            size[3],
		}
		tests = append(tests, testCase{
			meta:  meta,
			input: model.GenerateScheduleInput(size[0], size[1], size[2], size[3]),
		})
	}
	return tests
}

func getSolvers() []SolverType {
	return []SolverType{gophersat, cpsat}
}

func measure(solverType SolverType, test testCase) BenchmarkResult {
	solver := solverConstructors[solverType](ilp.DefaultTimeout)
	scheduler := model.NewScheduler(solver, nil)

	start := time.Now()
	schedule, err := scheduler.BuildAndSolve(test.input)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		log.Fatalf("an error occurred during schedule construction at test \"%v\" using solver \"%v\": %v", test.meta.Name, solverTypes[solverType], err)
	}

	result := BenchmarkResult{
		Solver:   solverType,
		Test:     test.meta,
		Duration: duration,
	}
	if schedule == nil {
		result.Result = timeout
		return result
	}

	if !scheduler.Verify(schedule, test.input) {
		log.Fatalf("verification failed at test \"%v\" using solver \"%v\"", test.meta.Name, solverTypes[solverType])
	}

	result.Variables = schedule.Variables
	result.Constraints = schedule.Constraints
	result.TotalSlack = schedule.TotalSlack
	if schedule.TotalSlack > 0 {
		result.Result = relaxed
	} else {
		result.Result = solved
	}
	return result
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create(resultsFile)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Solver", "Test", "Batches", "Subjects per batch", "Teachers", "Rooms", "Variables", "Constraints", "Duration(ms)", "Total slack", "Result"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		if err := writer.Write(csvRecord(result)); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func csvRecord(result BenchmarkResult) []string {
	return []string{
		solverTypes[result.Solver],
		result.Test.Name,
		fmt.Sprintf("%d", result.Test.Batches),
		fmt.Sprintf("%d", result.Test.SubjectsPerBatch),
		fmt.Sprintf("%d", result.Test.Teachers),
		fmt.Sprintf("%d", result.Test.Rooms),
		fmt.Sprintf("%d", result.Variables),
		fmt.Sprintf("%d", result.Constraints),
		fmt.Sprintf("%d", result.Duration),
		fmt.Sprintf("%d", result.TotalSlack),
		resultTypes[result.Result],
	}
}

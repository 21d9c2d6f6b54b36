package kv

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/rKV/cmd/util"
	"github.com/ValentinKolb/rKV/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for rKV servers",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfSkip             = make([]string, 0)
)

// perfTest is a single benchmark against the server
type perfTest struct {
	name string
	// prepare runs before the timer starts, keys are the keys of this test
	prepare func(keys []string)
	// op performs the i-th operation of a worker
	op func(key string, i int) error
}

// perfResult bundles the go benchmark result with the measured latencies
type perfResult struct {
	bench   testing.BenchmarkResult
	latency latencyStats
}

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How large the value for the set-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = max(viper.GetInt("keys"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

// perfTests returns all benchmarks in the order they are run
func perfTests() []perfTest {
	fill := func(keys []string) {
		for _, k := range keys {
			if err := rpcStore.Set(k, "test"); err != nil {
				log.Printf("error setting key %s: %v\n", k, err)
			}
		}
	}
	largeValue := strings.Repeat("x", perfLargeValueSizeKB*1024)

	return []perfTest{
		{
			name: "ping",
			op: func(_ string, _ int) error {
				return rpcStore.Ping()
			},
		},
		{
			name: "set",
			op: func(key string, _ int) error {
				return rpcStore.Set(key, "test")
			},
		},
		{
			name: "set-large",
			op: func(key string, _ int) error {
				return rpcStore.Set(key, largeValue)
			},
		},
		{
			name:    "get",
			prepare: fill,
			op: func(key string, _ int) error {
				_, _, err := rpcStore.Get(key)
				return err
			},
		},
		{
			name:    "delete",
			prepare: fill,
			op: func(key string, _ int) error {
				_, err := rpcStore.Delete(key)
				return err
			},
		},
		{
			name: "get-missing",
			op: func(key string, _ int) error {
				_, _, err := rpcStore.Get(key)
				return err
			},
		},
		{
			name:    "mixed",
			prepare: fill,
			op: func(key string, i int) (err error) {
				switch i % 3 {
				case 0:
					err = rpcStore.Set(key, "test")
				case 1:
					_, _, err = rpcStore.Get(key)
				case 2:
					_, err = rpcStore.Delete(key)
				}
				return err
			},
		},
	}
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for rKV servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("starting tests...")

	// Results in execution order
	names := make([]string, 0)
	results := make(map[string]perfResult)

	for _, test := range perfTests() {
		if shouldSkip(test.name) {
			results[test.name] = perfResult{}
			names = append(names, test.name)
			printResult(test.name, perfResult{})
			continue
		}

		result := runPerfTest(test)
		results[test.name] = result
		names = append(names, test.name)
		printResult(test.name, result)
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, names, results, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// runPerfTest runs a single benchmark in parallel and records the latency of each operation
func runPerfTest(test perfTest) perfResult {
	var recorder latencyRecorder

	// prepare keys
	getKey, keys := getKeys(test.name)

	bench := testing.Benchmark(func(b *testing.B) {
		recorder.reset()

		if test.prepare != nil {
			test.prepare(keys)
		}

		// cleanup
		b.Cleanup(func() {
			if _, err := rpcStore.Delete(keys...); err != nil {
				log.Printf("(%s) - error deleting keys: %v\n", test.name, err)
			}
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			samples := make([]float64, 0, 1024)
			counter := 0
			for pb.Next() {
				start := time.Now()
				err := test.op(getKey(counter), counter)
				samples = append(samples, float64(time.Since(start)))
				if err != nil {
					log.Printf("(%s) - error performing operation: %v\n", test.name, err)
				}
				counter++
			}
			recorder.add(samples)
		})
	})

	return perfResult{bench: bench, latency: recorder.stats()}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == strings.TrimSpace(skip) {
			return true
		}
	}
	return false
}

// creates the test keys of a benchmark and a function to pick one by index
func getKeys(prefix string) (func(int) string, []string) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	return getKey, keys
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result perfResult) {
	if result.bench.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.bench.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)
	l := result.latency

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\tmean=%s stddev=%s p50=%s p99=%s\n",
		test, nsPerOp, time.Duration(nsPerOp), opsPerSec, l.Mean, l.StdDev, l.P50, l.P99)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, names []string, results map[string]perfResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"LatencySamples", "LatencyMeanNs", "LatencyStdDevNs", "LatencyP50Ns", "LatencyP99Ns",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"Serializer", "Transport",
		"Threads", "LargeValueSizeKB", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for _, test := range names {
		result := results[test]

		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.bench.NsPerOp() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.bench.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		l := result.latency
		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			strconv.Itoa(l.Samples),
			strconv.FormatInt(l.Mean.Nanoseconds(), 10),
			strconv.FormatInt(l.StdDev.Nanoseconds(), 10),
			strconv.FormatInt(l.P50.Nanoseconds(), 10),
			strconv.FormatInt(l.P99.Nanoseconds(), 10),
			strings.Join(config.Transport.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.Transport.RetryCount),
			strconv.Itoa(config.Transport.ConnectionsPerEndpoint),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}

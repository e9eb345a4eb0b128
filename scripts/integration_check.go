//go:build ignore

// Smoke check against a live Runtara server:
//
//	go run scripts/integration_check.go [-s host:port] [-t tenant]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yourusername/runtara-monitor/internal/datasource"
	"github.com/yourusername/runtara-monitor/internal/model"
	"go.uber.org/zap"
)

func main() {
	address := flag.String("s", os.Getenv("RUNTARA_ENV_ADDR"), "server address")
	tenant := flag.String("t", "", "tenant ID for the metrics check")
	flag.Parse()
	if *address == "" {
		*address = "127.0.0.1:8002"
	}

	fmt.Println("=== runtara-monitor Integration Check ===")
	fmt.Println("")

	client, err := datasource.NewHTTPClient(datasource.ClientConfig{
		Address:              *address,
		SkipCertVerification: true,
	}, zap.NewNop())
	if err != nil {
		fail(err)
	}
	defer client.Close()
	ctx := context.Background()

	fmt.Printf("Test 1: Health of %s...\n", client.BaseURL())
	start := time.Now()
	health, err := client.GetHealth(ctx)
	if err != nil {
		fail(err)
	}
	fmt.Printf("✅ PASSED: healthy=%v version=%s in %v\n", health.Healthy, health.Version, time.Since(start))

	fmt.Println("\nTest 2: Fetching a full snapshot...")
	source := datasource.NewSnapshotSource(client, zap.NewNop())
	start = time.Now()
	snap, err := source.FetchSnapshot(ctx, model.Query{
		TenantID:    *tenant,
		Granularity: model.GranularityHourly,
		Limit:       datasource.DefaultListLimit,
	})
	if err != nil {
		fail(err)
	}
	fmt.Printf("✅ PASSED: %d instances, %d images in %v\n", len(snap.Instances), len(snap.Images), time.Since(start))
	if snap.Metrics != nil {
		fmt.Printf("   %d metric buckets for tenant %s\n", len(snap.Metrics.Buckets), snap.Metrics.TenantID)
	}

	if len(snap.Instances) > 0 {
		inst := snap.Instances[0]
		fmt.Printf("\nTest 3: Checkpoints of %s...\n", inst.ID)
		checkpoints, err := client.ListCheckpoints(ctx, inst.ID)
		if err != nil {
			fail(err)
		}
		fmt.Printf("✅ PASSED: %d checkpoints\n", len(checkpoints))

		if len(checkpoints) > 0 {
			raw, err := client.GetCheckpointData(ctx, inst.ID, checkpoints[0].ID)
			if err != nil {
				fail(err)
			}
			data := model.DecodeCheckpointData(inst.ID, checkpoints[0].ID, raw)
			fmt.Printf("✅ PASSED: checkpoint data %d bytes, readable=%v\n", len(raw), data.Readable)
		}
	}

	fmt.Println("\n=== All checks passed ===")
}

func fail(err error) {
	fmt.Printf("❌ FAILED: %v\n", err)
	if kind, ok := datasource.KindOf(err); ok {
		fmt.Printf("   kind: %s\n", kind)
	}
	os.Exit(1)
}

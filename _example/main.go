package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/hupe1980/kdego"
	"github.com/hupe1980/kdego/testutil"
)

func main() {
	seed := int64(4711)
	dim := 2
	perCluster := 25000
	bandwidth := 0.05
	eps := 0.5

	gen := testutil.NewGenerator(seed)
	data := gen.TwoClusters(perCluster, dim, 10.0, 1.0)
	queries := gen.Uniform(100, dim)

	ctx := context.Background()

	fmt.Println("--- Build ---")
	fmt.Println("Dimension:", dim)
	fmt.Println("Size:", data.Rows())

	start := time.Now()

	engine, err := kdego.NewCKNS(ctx, data, bandwidth, eps, kdego.WithSeed(seed))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Seconds: %.2f\n", time.Since(start).Seconds())
	fmt.Println("Repetitions:", engine.Repetitions())
	fmt.Println("Guesses:", engine.Guesses())
	fmt.Println()

	fmt.Println("--- CKNS ---")

	start = time.Now()

	approx, err := engine.Query(ctx, queries)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Seconds: %.4f\n\n", time.Since(start).Seconds())

	fmt.Println("--- Exact ---")

	exact, err := kdego.NewExact(data, bandwidth)
	if err != nil {
		log.Fatal(err)
	}

	start = time.Now()

	truth, err := exact.Query(ctx, queries)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Seconds: %.4f\n\n", time.Since(start).Seconds())

	var sum, worst float64
	for i := range truth {
		relErr := math.Abs(approx[i]-truth[i]) / truth[i]
		sum += relErr
		if relErr > worst {
			worst = relErr
		}
	}

	fmt.Println("--- Accuracy ---")
	fmt.Printf("Mean relative error:  %.4f\n", sum/float64(len(truth)))
	fmt.Printf("Worst relative error: %.4f\n", worst)
}

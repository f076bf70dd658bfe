// Package pkg provides the core libraries for Rocktower.
//
// # Overview
//
// Rocktower drops rocks of five fixed shapes into a seven-wide chamber. Jets
// of gas push each falling rock left or right according to a repeating
// pattern, and rocks settle on the floor or on each other. The libraries
// answer one question: how tall is the tower after n rocks? The pkg
// directory is organized into three main areas:
//
//  1. Simulation - [tower], [jet] and [sim]
//  2. Orchestration - [pipeline] (validation, caching, history)
//  3. Infrastructure - [cache], [history], [config], [api], [observability]
//
// # Architecture
//
// The typical data flow through Rocktower:
//
//	Jet pattern (file, flag, stdin or HTTP body)
//	         ↓
//	    [jet] package (parse the pattern)
//	         ↓
//	    [sim] package (exact run or cycle extrapolation)
//	         ↓
//	    [pipeline] package (cache lookup, history record)
//	         ↓
//	    CLI output or JSON response
//
// # Quick Start
//
// Compute the height after a trillion rocks:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/rocktower/pkg/jet"
//	    "github.com/matzehuels/rocktower/pkg/sim"
//	)
//
//	jets, _ := jet.Parse(">>><<><>><<<>><>>><<<>>><<<><<<>><>><<>>")
//	res, _ := sim.Extrapolate(context.Background(), jets, 1_000_000_000_000, sim.DefaultSurfaceDepth)
//	fmt.Println(res.Height) // 1514285714288
//
// # Main Packages
//
// ## Simulation
//
// [tower] - The chamber: bitmask rows with wall bits, the five shapes, and
// the settled-rock grid that only grows upward.
//
// [jet] - Jet pattern parsing and cyclic access by push counter.
//
// [sim] - The per-rock drop cycle, state fingerprints, and the cycle
// detector that turns a repeating state into an extrapolated height.
//
// ## Orchestration
//
// [pipeline] - One run end to end, shared by the CLI and the API so both
// validate, cache and record runs the same way.
//
// ## Infrastructure
//
// [cache] - Result cache keyed by pattern hash and run options. FileCache
// for the CLI, RedisCache for shared API deployments, NullCache to disable.
//
// [history] - Run history. FileStore for the CLI, MongoStore for shared
// deployments, NullStore to disable.
//
// [config] - TOML configuration file with XDG paths.
//
// [api] - HTTP API on chi.
//
// [observability] - Hooks for metrics and tracing around simulations, cache
// access and HTTP requests.
//
// [errors] - Structured errors with machine-readable codes.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/sim/...      # Specific package
//	go test -run Example       # Examples only
//
// [tower]: https://pkg.go.dev/github.com/matzehuels/rocktower/pkg/tower
// [jet]: https://pkg.go.dev/github.com/matzehuels/rocktower/pkg/jet
// [sim]: https://pkg.go.dev/github.com/matzehuels/rocktower/pkg/sim
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/rocktower/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/rocktower/pkg/cache
// [history]: https://pkg.go.dev/github.com/matzehuels/rocktower/pkg/history
// [config]: https://pkg.go.dev/github.com/matzehuels/rocktower/pkg/config
// [api]: https://pkg.go.dev/github.com/matzehuels/rocktower/pkg/api
// [observability]: https://pkg.go.dev/github.com/matzehuels/rocktower/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/rocktower/pkg/errors
package pkg

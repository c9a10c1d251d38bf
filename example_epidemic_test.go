// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim_test

import (
	"fmt"
	"log"

	// Superfluous alias needed to work around
	// https://github.com/golang/go/issues/12794
	episim "github.com/petenewcomb/episim-go"
)

// Runs an SIR epidemic over a seeded Erdős–Rényi network with Gillespie
// dynamics. The run halts of its own accord once the infection dies out, so
// the final infected count is always zero; the population is conserved
// across the compartments throughout.
func Example_epidemic() {
	p := episim.NewParams()
	p.Set("N", 100)
	p.Set("kmean", 8.0)
	p.Set(episim.PInfected, 0.1)
	p.Set(episim.PInfect, 0.2)
	p.Set(episim.PRemove, 0.1)

	d := episim.NewStochasticDynamics(episim.ERNetwork{}, episim.NewSIR())
	d.SetSeed(12345)
	if err := d.SetUp(p); err != nil {
		log.Fatal(err)
	}
	res, err := d.Do(p)
	if err != nil {
		log.Fatal(err)
	}

	count := func(c string) int {
		v, _ := res.Lookup("", c)
		return v.(int)
	}
	s, i, r := count(episim.Susceptible), count(episim.Infected), count(episim.Removed)
	fmt.Println("final population:", s+i+r)
	fmt.Println("still infected:", i)
	// Output:
	// final population: 100
	// still infected: 0
}

// Posts events at absolute simulation times and fires everything due by a
// deadline. Events fire in time order no matter the order they were posted
// in.
//
//nolint:errcheck
func Example_postedEvents() {
	d := episim.NewStochasticDynamics(episim.NewFixedNetwork(episim.NewGraph()))
	if err := d.SetUp(episim.NewParams()); err != nil {
		log.Fatal(err)
	}

	say := func(what string) episim.EventHandler {
		return func(t float64, e episim.Element) error {
			fmt.Printf("t=%v: %s\n", t, what)
			return nil
		}
	}
	d.PostEvent(3, episim.Unit, say("third"), "")
	d.PostEvent(1, episim.Unit, say("first"), "")
	d.PostEvent(2, episim.Unit, say("second"), "")

	if _, err := d.RunPendingEvents(10); err != nil {
		log.Fatal(err)
	}
	// Output:
	// t=1: first
	// t=2: second
	// t=3: third
}

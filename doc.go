/*
Package hwtb provides a small coroutine-driven simulation kernel for writing
hardware testbenches in Go.

A testbench declares a device under test (DUT) as a set of named signals, then
drives and samples those signals from tasks. Tasks are cooperative: a task
runs until it waits for a timer, a signal edge or another task, and only one
task runs at any given time. Since the kernel serializes all tasks, signals
need no locking.

	sim := hwtb.New()
	dut, err := sim.NewDUT("codma", "clk_i, reset_n_i, read_data[32]")
	if err != nil {
		// ...
	}
	err = sim.Run(ctx, "test", func(ctx context.Context) error {
		clk := &hwtb.Clock{Signal: dut.Signal("clk_i"), Period: 10 * hwtb.NS}
		if _, err := clk.Start(ctx); err != nil {
			return err
		}
		rst := dut.Signal("reset_n_i")
		rst.Set(0)
		if err := hwtb.Sleep(ctx, 10*hwtb.NS); err != nil {
			return err
		}
		rst.Set(1)
		return nil
	})

The kernel does not model the DUT itself: signal values only change when a
task writes them.
*/
package hwtb

// Package process starts and tracks the editing engine child process.
//
// A Process owns the three standard streams of the child. The caller reads
// stdout and stderr until EOF and only then calls Wait, because exec.Cmd
// closes the read ends of its pipes once the child is reaped:
//
//	proc, err := process.Start("xi-core", "/usr/local/bin/xi-core")
//	if err != nil {
//	    return err
//	}
//	// ... read proc.Stdout / proc.Stderr until EOF ...
//	_ = proc.Stdin.Close()
//	err = proc.Wait()
//	fmt.Println(proc.State(), proc.ExitCode())
//
// Closing Stdin is the termination signal understood by the engine; no quit
// message exists on the wire.
package process

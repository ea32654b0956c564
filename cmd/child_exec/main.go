// Command child_exec is the exec target of the fork_exec_wait and exec_cmd
// cases. It exits immediately with status 0.
package main

func main() {}

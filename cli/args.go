// ABOUTME: Flag parsing shared by CLI commands
// ABOUTME: Accepts flags before or after positional arguments
package cli

import "flag"

// parseArgs parses args with fs, letting flags follow positional arguments
// such as "add-item <event-id> --name Stage". Positionals stay available
// through fs.Arg and fs.NArg.
func parseArgs(fs *flag.FlagSet, args []string) error {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
	return fs.Parse(append([]string{"--"}, positional...))
}

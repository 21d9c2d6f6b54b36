package kv

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ValentinKolb/rKV/rpc/common"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive shell for the rKV server",
	Long: `Reads commands line by line and prints the server response.

Commands:
  ping               check the server is alive
  set <key> <value>  set a value
  get <key>          read a value
  del <key...>       delete keys
  shutdown           ask the server to stop
  exit               leave the shell`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return repl(cmd.InOrStdin(), cmd.OutOrStdout(), rpcStore.Do)
	},
}

type replStyles struct {
	prompt lipgloss.Style
	ok     lipgloss.Style
	value  lipgloss.Style
	err    lipgloss.Style
	dim    lipgloss.Style
}

func buildStyles() replStyles {
	return replStyles{
		prompt: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		ok:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		value:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		err:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		dim:    lipgloss.NewStyle().Faint(true),
	}
}

// repl runs the shell until exit or the end of in. do sends one request.
func repl(in io.Reader, out io.Writer, do func(*common.Message) (*common.Message, error)) error {
	styles := buildStyles()
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		fmt.Fprint(out, styles.prompt.Render("rkv>")+" ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		req, quit := ParseCommand(scanner.Text())
		if quit {
			return nil
		}

		resp, err := do(req)
		fmt.Fprintln(out, renderResponse(styles, resp, err))

		// the server is gone after a shutdown
		if err == nil && req.MsgType == common.MsgTExit {
			return nil
		}
	}
}

// renderResponse formats the answer of the server for the shell
func renderResponse(s replStyles, resp *common.Message, err error) string {
	switch {
	case err != nil:
		return s.err.Render("(error)") + " " + err.Error()
	case resp == nil:
		return s.dim.Render("(no response)")
	case resp.MsgType == common.MsgTError:
		return s.err.Render("(error)") + " " + resp.Err
	case resp.MsgType == common.MsgTValue:
		return s.value.Render(resp.GetValue())
	case resp.Value != nil:
		return s.ok.Render(resp.GetValue())
	default:
		return s.ok.Render("OK")
	}
}

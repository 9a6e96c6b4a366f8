// ABOUTME: Install Claude Code skill for rpt.
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/rpt/.
package main

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the rpt skill for Claude Code.

This copies the skill definition to ~/.claude/skills/rpt/
so Claude Code can use rpt commands contextually.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		return installSkill(afero.NewOsFs(), home, os.Stdin, skillSkipConfirm)
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}

// skillPath is where the skill file goes under home.
func skillPath(home string) string {
	return filepath.Join(home, ".claude", "skills", "rpt", "SKILL.md")
}

func installSkill(fsys afero.Fs, home string, in io.Reader, skipConfirm bool) error {
	dest := skillPath(home)

	fmt.Println("This will install the rpt skill, enabling Claude Code to:")
	fmt.Println()
	fmt.Println("  • Start and finish workouts")
	fmt.Println("  • Log RPT sets with pre-filled drop weights")
	fmt.Println("  • Show exercise history and estimated maxes")
	fmt.Println()
	fmt.Println("Destination:")
	fmt.Printf("  %s\n", dest)
	fmt.Println()

	if exists, _ := afero.Exists(fsys, dest); exists {
		fmt.Println("Note: A skill file already exists and will be overwritten.")
		fmt.Println()
	}

	if !skipConfirm {
		fmt.Print("Install the rpt skill? [y/N] ")
		response, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read response: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Installation canceled.")
			return nil
		}
		fmt.Println()
	}

	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}
	if err := fsys.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := afero.WriteFile(fsys, dest, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	color.Green("✓ Installed rpt skill")
	return nil
}

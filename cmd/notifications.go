package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/notify"
)

var flagNotifyType string

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"inbox"},
	Short:   "List notifications, newest first",
	RunE:    runNotifications,
}

func init() {
	notificationsCmd.Flags().StringVar(&flagNotifyType, "type", "", "Filter by type (bill_reminder, budget_alert, alternative_suggestion, payment_confirmation)")
	rootCmd.AddCommand(notificationsCmd)
}

func runNotifications(_ *cobra.Command, _ []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	typ := model.NotificationType(flagNotifyType)
	if typ != "" {
		known := false
		for _, t := range notify.Types {
			known = known || t == typ
		}
		if !known {
			return fmt.Errorf("unknown notification type %q", flagNotifyType)
		}
	}

	items := ws.inbox.List(typ)
	if len(items) == 0 {
		fmt.Println("\n  No notifications.")
		return nil
	}

	now := time.Now()
	rows := make([][]string, 0, len(items))
	for _, n := range items {
		kind := notify.KindFor(n.Type)
		rows = append(rows, []string{kind.Icon + " " + kind.Title, n.Message, notify.TimeAgo(n.CreatedAt, now)})
	}

	counts := ws.inbox.CountByType()
	title := fmt.Sprintf("Notifications (%d unread)", ws.inbox.UnreadCount())
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    title,
		Headers:  []string{"Type", "Message", "When"},
		Rows:     rows,
		TextCols: 3,
	}))
	for _, t := range notify.Types {
		if counts[t] > 0 {
			fmt.Printf("  %-22s %d\n", cli.FormatLabel(string(t)), counts[t])
		}
	}
	fmt.Println()
	return nil
}

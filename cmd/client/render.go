package main

import (
	"dm-lab/client"
	"dm-lab/domain"
	"fmt"
	"io"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

type renderer struct {
	out     io.Writer
	colours bool
}

func (r renderer) header(title string) {
	line := fmt.Sprintf("  ====== %s ======", title)
	if r.colours {
		line = color.New(color.BgBlack, color.FgGreen).Render(line)
	}
	fmt.Fprintln(r.out, line)
}

func (r renderer) failure(err error) {
	line := "error: " + err.Error()
	if r.colours {
		line = color.FgRed.Render(line)
	}
	fmt.Fprintln(r.out, line)
}

func (r renderer) table(head []string) *tablewriter.Table {
	table := tablewriter.NewWriter(r.out)
	table.SetHeader(head)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func (r renderer) conversations(conversations []domain.Conversation) {
	r.header("Conversations")
	if len(conversations) == 0 {
		fmt.Fprintln(r.out, "no conversation yet")
		return
	}
	table := r.table([]string{"With", "Last message", "At"})
	for _, c := range conversations {
		table.Append([]string{display(c.Counterpart), c.LastMessage, c.Timestamp.Local().Format(time.DateTime)})
	}
	table.Render()
}

func (r renderer) transcript(me string, active client.ActiveConversation) {
	r.header("Conversation with " + active.Counterpart)
	if !active.Loaded {
		fmt.Fprintln(r.out, "loading...")
		return
	}
	table := r.table([]string{"#", "From", "Message", "At"})
	for _, m := range active.Messages {
		from := display(m.Sender)
		if r.colours && m.Sender.ID == me {
			from = color.FgCyan.Render(from)
		}
		table.Append([]string{fmt.Sprint(m.ID), from, m.Content, m.CreatedAt.Local().Format(time.DateTime)})
	}
	table.Render()
}

func display(ref domain.UserRef) string {
	if ref.Name == "" {
		return ref.ID
	}
	return fmt.Sprintf("%s (%s)", ref.Name, ref.ID)
}

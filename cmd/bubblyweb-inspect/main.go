// Command bubblyweb-inspect displays the hydration annotations embedded
// in a server-rendered HTML document.
//
// It parses the document, joins each component host's ngh attribute with
// the annotation table from the transfer-state script, and presents the
// result as an interactive table: one row per annotated host, with the
// selected host's full annotation JSON rendered below.
//
// Usage:
//
//	bubblyweb-inspect [-app <appId>] page.html
//
// Without -app the transfer-state script is auto-detected by its
// "<appId>-state" id suffix.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/newbpydev/bubblyweb/pkg/dom"
	"github.com/newbpydev/bubblyweb/pkg/hydration"
	"github.com/newbpydev/bubblyweb/pkg/transfer"
)

func main() {
	appID := flag.String("app", "", "application id (auto-detected when empty)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: bubblyweb-inspect [-app <appId>] page.html")
		os.Exit(2)
	}

	report, err := inspect(flag.Arg(0), *appID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bubblyweb-inspect:", err)
		os.Exit(1)
	}
	if len(report.Hosts) == 0 {
		fmt.Println("no annotated component hosts in document")
		return
	}

	if _, err := tea.NewProgram(newModel(report)).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "bubblyweb-inspect:", err)
		os.Exit(1)
	}
}

// hostInfo is one annotated component host found in the document.
type hostInfo struct {
	Tag           string
	Index         int
	ServerContext string
	Annotation    json.RawMessage
}

// inspectReport joins the document's hosts with the annotation table.
type inspectReport struct {
	File  string
	AppID string
	Table []json.RawMessage
	Hosts []hostInfo
}

func inspect(path, appID string) (*inspectReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if appID == "" {
		appID = detectAppID(doc)
		if appID == "" {
			return nil, fmt.Errorf("no transfer-state script in %s; pass -app explicitly", path)
		}
	}

	state, err := transfer.Extract(doc, appID)
	if err != nil {
		return nil, err
	}
	var table []json.RawMessage
	if raw, ok := state[hydration.TransferKey]; ok {
		if err := json.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("parsing %s table: %w", hydration.TransferKey, err)
		}
	}

	report := &inspectReport{File: path, AppID: appID, Table: table}
	dom.WalkElements(doc, func(n *html.Node) bool {
		idx, ok := hydration.ReadHostIndex(n)
		if !ok {
			return true
		}
		info := hostInfo{Tag: n.Data, Index: idx}
		info.ServerContext, _ = dom.GetAttribute(n, hydration.ServerContextAttr)
		if idx < len(table) {
			info.Annotation = table[idx]
		}
		report.Hosts = append(report.Hosts, info)
		return true
	})
	return report, nil
}

// detectAppID finds the first application/json script whose id carries
// the "-state" suffix and returns the application id part.
func detectAppID(doc *html.Node) string {
	var appID string
	script := dom.FindElement(doc, func(n *html.Node) bool {
		if n.DataAtom != atom.Script {
			return false
		}
		typ, _ := dom.GetAttribute(n, "type")
		id, _ := dom.GetAttribute(n, "id")
		return typ == transfer.ScriptType && strings.HasSuffix(id, "-state")
	})
	if script != nil {
		id, _ := dom.GetAttribute(script, "id")
		appID = strings.TrimSuffix(id, "-state")
	}
	return appID
}

// ABOUTME: Graph of who sells which event to which client
// ABOUTME: Renders salesperson -> event -> client edges as DOT via go-graphviz
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/eventdesk/finance"
	"github.com/harperreed/eventdesk/models"
	"github.com/harperreed/eventdesk/reconcile"
)

// GenerateEventGraph links salespeople to their events and events to the
// client they reconcile to. Events with no known client point at a
// dashed placeholder node named after the free-text client.
func GenerateEventGraph(ctx context.Context, users []models.User, clients []models.Client, events []models.Event) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetLabel("Events by salesperson and client")
	graph.SetRankDir(cgraph.LRRank)

	userNodes := make(map[string]*cgraph.Node)
	for _, u := range users {
		node, err := graph.CreateNodeByName("user_" + u.ID.String()[:8])
		if err != nil {
			return "", fmt.Errorf("failed to create user node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n(%s)", u.Name, u.Role))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor("lightblue")
		userNodes[u.ID.String()] = node
	}

	clientNodes := make(map[string]*cgraph.Node)
	clientNode := func(key, label string, known bool) (*cgraph.Node, error) {
		if node, ok := clientNodes[key]; ok {
			return node, nil
		}
		node, err := graph.CreateNodeByName("client_" + key)
		if err != nil {
			return nil, fmt.Errorf("failed to create client node: %w", err)
		}
		node.SetLabel(label)
		node.SetShape("ellipse")
		if known {
			node.SetStyle("filled")
			node.SetFillColor("lightgreen")
		} else {
			node.SetStyle("dashed")
		}
		clientNodes[key] = node
		return node, nil
	}

	for _, ef := range finance.WithFinancialsAll(events) {
		node, err := graph.CreateNodeByName("event_" + ef.ID.String()[:8])
		if err != nil {
			return "", fmt.Errorf("failed to create event node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%.0f SAR\n(%s)", ef.Name, ef.Revenue, ef.Status))
		node.SetShape("diamond")
		node.SetStyle("filled")
		node.SetFillColor("lightyellow")

		if ef.SalespersonID != nil {
			if userNode, ok := userNodes[ef.SalespersonID.String()]; ok {
				edge, err := graph.CreateEdgeByName("sells", userNode, node)
				if err != nil {
					return "", fmt.Errorf("failed to create edge: %w", err)
				}
				edge.SetLabel("sells")
			}
		}

		var target *cgraph.Node
		if client := reconcile.FindLinkedClient(ef.Event, clients); client != nil {
			target, err = clientNode(client.ID.String()[:8], client.CompanyName, true)
		} else if name := reconcile.Normalize(ef.ClientName); name != "" {
			target, err = clientNode("unknown_"+fmt.Sprintf("%x", name), ef.ClientName+"\n(unknown)", false)
		}
		if err != nil {
			return "", err
		}
		if target != nil {
			edge, err := graph.CreateEdgeByName("for", node, target)
			if err != nil {
				return "", fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel("for")
			edge.SetStyle("dotted")
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}

// digestctl edits a digest from the terminal through the same drag controller
// the editor uses.
//
//	digestctl -team <id> -digest <id> show
//	digestctl -team <id> -digest <id> add <bookmarkId> <position>
//	digestctl -team <id> -digest <id> move <fromIndex> <toIndex>
//	digestctl -team <id> -digest <id> remove <blockId>
//	digestctl -team <id> -digest <id> bookmarks [search]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"digestly-be/pkg/digestclient"
	"digestly-be/pkg/dnd"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type colorNotifier struct{}

func (colorNotifier) Success(message string) { color.Green("✔ %s", message) }
func (colorNotifier) Error(message string)   { color.Red("✘ %s", message) }

func main() {
	_ = godotenv.Load()

	baseURL := flag.String("base", envOr("DIGESTLY_API_URL", "http://localhost:3000/api"), "API root")
	token := flag.String("token", os.Getenv("DIGESTLY_TOKEN"), "bearer token")
	team := flag.String("team", "", "team id")
	digest := flag.String("digest", "", "digest id")
	timeout := flag.Duration("timeout", 15*time.Second, "request timeout")
	flag.Parse()

	teamID, err := uuid.Parse(*team)
	if err != nil {
		fail("invalid -team: %v", err)
	}
	digestID, err := uuid.Parse(*digest)
	if err != nil {
		fail("invalid -digest: %v", err)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := digestclient.New(*baseURL, *token, teamID, digestID)
	client.Timeout = *timeout
	controller := dnd.NewController(client, colorNotifier{})

	args := flag.Args()
	switch args[0] {
	case "show":
		if err := controller.Load(ctx); err != nil {
			fail("%v", err)
		}
	case "add":
		need(args, 3)
		load(ctx, controller)
		controller.BeginDrag()
		out := controller.EndDrag(ctx, dnd.DropResult{
			DraggableID: args[1],
			Source:      dnd.Location{DroppableID: dnd.PoolDroppableID},
			Destination: &dnd.Location{DroppableID: dnd.ListDroppableID, Index: atoi(args[2])},
		})
		exitOn(out)
	case "move":
		need(args, 3)
		load(ctx, controller)
		from := atoi(args[1])
		blocks := controller.Blocks()
		if from < 0 || from >= len(blocks) {
			fail("no block at index %d", from)
		}
		controller.BeginDrag()
		out := controller.EndDrag(ctx, dnd.DropResult{
			DraggableID: blocks[from].Id.String(),
			Source:      dnd.Location{DroppableID: dnd.ListDroppableID, Index: from},
			Destination: &dnd.Location{DroppableID: dnd.ListDroppableID, Index: atoi(args[2])},
		})
		exitOn(out)
	case "remove":
		need(args, 2)
		blockID, err := uuid.Parse(args[1])
		if err != nil {
			fail("invalid block id: %v", err)
		}
		if err := client.RemoveBlock(ctx, blockID); err != nil {
			fail("%v", err)
		}
		colorNotifier{}.Success("Block removed")
		load(ctx, controller)
	case "bookmarks":
		search := ""
		if len(args) > 1 {
			search = args[1]
		}
		page, err := client.ListBookmarks(ctx, digestclient.ListBookmarksInput{OnlyNotInDigest: true, Search: search})
		if err != nil {
			fail("%v", err)
		}
		for _, b := range page.Items {
			title := ""
			if b.Link != nil {
				title = b.Link.Title + "  " + b.Link.Url
			}
			fmt.Printf("%s  %-8s %s\n", color.CyanString(b.Id.String()), b.Provider, title)
		}
		return
	default:
		fail("unknown command %q", args[0])
	}

	printBlocks(controller.Blocks(), client.Version())
}

func load(ctx context.Context, controller *dnd.Controller) {
	if err := controller.Load(ctx); err != nil {
		fail("%v", err)
	}
}

func printBlocks(blocks []digestclient.Block, version int) {
	color.Yellow("version %d, %d blocks", version, len(blocks))
	for _, b := range blocks {
		label := b.Title
		if b.Bookmark != nil && b.Bookmark.Link != nil {
			label = b.Bookmark.Link.Title + "  " + b.Bookmark.Link.Url
		}
		fmt.Printf("%3d  %-8s %s  %s\n", b.Order, b.Type, color.CyanString(b.Id.String()), label)
	}
}

func exitOn(out dnd.Outcome) {
	if out.Err != nil {
		os.Exit(1)
	}
}

func need(args []string, n int) {
	if len(args) < n {
		fail("%s needs %d argument(s)", args[0], n-1)
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		fail("%q is not a number", s)
	}
	return n
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fail(format string, args ...interface{}) {
	color.Red(format, args...)
	os.Exit(1)
}

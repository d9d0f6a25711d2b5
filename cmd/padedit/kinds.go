package main

import "github.com/ha1tch/padgraph/pkg/graphfile"

// defaultKinds is the catalog used when a graph file declares none.
func defaultKinds() []graphfile.KindSpec {
	return []graphfile.KindSpec{
		{Name: "videotestsrc", Rank: 5, Sockets: []graphfile.SocketSpec{
			{Name: "src", Direction: "out", Caps: "video/x-raw"},
		}},
		{Name: "audiotestsrc", Rank: 5, Sockets: []graphfile.SocketSpec{
			{Name: "src", Direction: "out", Caps: "audio/x-raw"},
		}},
		{Name: "autovideosink", Rank: 10, Sockets: []graphfile.SocketSpec{
			{Name: "sink", Direction: "in", Caps: "video/x-raw"},
		}},
		{Name: "autoaudiosink", Rank: 10, Sockets: []graphfile.SocketSpec{
			{Name: "sink", Direction: "in", Caps: "audio/x-raw"},
		}},
		{Name: "queue", Sockets: []graphfile.SocketSpec{
			{Name: "sink", Direction: "in"},
			{Name: "src", Direction: "out"},
		}},
		{Name: "tee", Sockets: []graphfile.SocketSpec{
			{Name: "sink", Direction: "in"},
		}, Templates: []graphfile.SocketSpec{
			{Name: "src_%u", Direction: "out"},
		}},
		{Name: "typefind", Sockets: []graphfile.SocketSpec{
			{Name: "sink", Direction: "in"},
			{Name: "src", Direction: "out"},
		}},
		{Name: "compositor", Sockets: []graphfile.SocketSpec{
			{Name: "src", Direction: "out", Caps: "video/x-raw"},
		}, Templates: []graphfile.SocketSpec{
			{Name: "sink_%u", Direction: "in", Caps: "video/x-raw"},
		}},
	}
}

func newDescription() *graphfile.Description {
	return &graphfile.Description{Name: "untitled", Kinds: defaultKinds()}
}

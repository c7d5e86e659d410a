/*
Package omakase implements a CSS processor built around a parser that
broadcasts every node it creates to a set of plugins. Plugins observe and
rework the tree while it is being built, and validate it once it is done.

This package ties the pieces together. The scanner, parser, syntax tree,
broadcast and plugin packages can also be used on their own.


Basics

Processing occurs in two passes. The first pass splits the source into raw
rules, at-rules, selectors and declarations without looking inside of them.
These raw nodes can be refined later into their full structure: a selector
into its class, type and combinator parts, or a declaration into its
property name and value terms. Content that no plugin cares about is never
refined, and is written back out exactly as it was read.

Each node is broadcast as soon as it is created, first to the refine phase,
then to the create phase and finally to the rework phase. Within a phase,
plugins are called in the order they were registered. The second pass walks
the finished tree and broadcasts each node to the validate phase.


Plugins

A plugin subscribes callbacks for the node types it is interested in:

	func (p *MyPlugin) Subscribe(e *broadcast.Emitter) {
		broadcast.On(e, broadcast.PhaseRework, p, "MyPlugin.rule", p.rule)
	}

Plugins that need other plugins implement plugin.DependentPlugin. The
AutoRefiner plugin refines nodes automatically, and the prefixer package
provides a plugin adding vendor prefixes for a set of supported browsers.

	result, err := omakase.Source(text).Use(prefixer.Default()).Process()
	if err != nil {
		return err
	}
	fmt.Println((&omakase.Printer{Mode: omakase.Inline}).Sprint(result.Stylesheet))


*/
package omakase

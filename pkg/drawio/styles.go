package drawio

// Cell styles follow the draw.io table shape conventions: a `shape=table`
// container with `tableLayout` children, one `partialRectangle` row per
// column split into a narrow marker cell and a label cell, and a plain
// `text;` block for annotation notes. The reverse parser keys off
// `shape=table` and the `text;` prefix, so those fragments are load
// bearing.
const (
	groupStyle = "group"

	tableStyle = "shape=table;startSize=30;container=1;collapsible=1;" +
		"childLayout=tableLayout;fixedRows=1;rowLines=0;fontStyle=1;" +
		"align=center;resizeLast=1;labelBackgroundColor=none;" +
		"fillColor=#dae8fc;strokeColor=#6c8ebf;"

	rowStyle = "shape=partialRectangle;collapsible=0;dropTarget=0;" +
		"pointerEvents=0;fillColor=none;top=0;left=0;bottom=0;right=0;" +
		"points=[[0,0.5],[1,0.5]];portConstraint=eastwest;strokeColor=#000000;"

	markerStyle = "shape=partialRectangle;connectable=0;fillColor=none;" +
		"top=0;left=0;bottom=0;right=0;editable=1;overflow=hidden;fontStyle=1"

	markerPlainStyle = "shape=partialRectangle;connectable=0;fillColor=none;" +
		"top=0;left=0;bottom=0;right=0;editable=1;overflow=hidden;"

	labelStyle = "shape=partialRectangle;connectable=0;fillColor=none;" +
		"top=0;left=0;bottom=0;right=0;align=left;spacingLeft=6;overflow=hidden;"

	// Bold plus underline for primary key labels.
	labelPKStyle = labelStyle + "fontStyle=5;"

	noteStyle = "text;html=1;strokeColor=none;fillColor=none;align=left;" +
		"verticalAlign=top;whiteSpace=wrap;rounded=0;fontSize=12;" +
		"fontColor=#666666;"

	edgeStyle = "edgeStyle=orthogonalEdgeStyle;rounded=0;orthogonalLoop=1;" +
		"jettySize=auto;html=1;endArrow=block;strokeColor=#999999;"
)

package element

// Document structure elements

func Header(args ...any) *Element  { return H(Tag("header"), args...) }
func Footer(args ...any) *Element  { return H(Tag("footer"), args...) }
func Main(args ...any) *Element    { return H(Tag("main"), args...) }
func Nav(args ...any) *Element     { return H(Tag("nav"), args...) }
func Section(args ...any) *Element { return H(Tag("section"), args...) }
func Article(args ...any) *Element { return H(Tag("article"), args...) }
func H1(args ...any) *Element      { return H(Tag("h1"), args...) }
func H2(args ...any) *Element      { return H(Tag("h2"), args...) }
func H3(args ...any) *Element      { return H(Tag("h3"), args...) }

// Text content elements

func Div(args ...any) *Element  { return H(Tag("div"), args...) }
func P(args ...any) *Element    { return H(Tag("p"), args...) }
func Span(args ...any) *Element { return H(Tag("span"), args...) }
func Pre(args ...any) *Element  { return H(Tag("pre"), args...) }
func Ul(args ...any) *Element   { return H(Tag("ul"), args...) }
func Ol(args ...any) *Element   { return H(Tag("ol"), args...) }
func Li(args ...any) *Element   { return H(Tag("li"), args...) }
func Hr(args ...any) *Element   { return H(Tag("hr"), args...) }

// Inline text semantics

func A(args ...any) *Element      { return H(Tag("a"), args...) }
func Strong(args ...any) *Element { return H(Tag("strong"), args...) }
func Em(args ...any) *Element     { return H(Tag("em"), args...) }
func Code(args ...any) *Element   { return H(Tag("code"), args...) }

// Forms

func Form(args ...any) *Element     { return H(Tag("form"), args...) }
func Button(args ...any) *Element   { return H(Tag("button"), args...) }
func Input(args ...any) *Element    { return H(Tag("input"), args...) }
func Label(args ...any) *Element    { return H(Tag("label"), args...) }
func Textarea(args ...any) *Element { return H(Tag("textarea"), args...) }

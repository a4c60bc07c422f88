package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/yurinview/pkg/grammar"
)

type syntaxError struct {
	Line, Column int
	Msg          string
}

func parse(t *testing.T, src string) (*grammar.File, []syntaxError) {
	t.Helper()
	var errs []syntaxError
	listener := grammar.ErrorListenerFunc(func(line, column int, msg string, _ *grammar.Token) {
		errs = append(errs, syntaxError{line, column, msg})
	})
	file, _, err := grammar.Parse(src, grammar.WithErrorListener(listener))
	require.NoError(t, err)
	require.NotNil(t, file)
	return file, errs
}

func TestParseHeaders(t *testing.T) {
	file, errs := parse(t, "package a.b.c\nimport x.y.*\nimport x.z as Z\nimport q")
	require.Empty(t, errs)

	assert.Equal(t, []string{"a", "b", "c"}, file.PackageParts())
	require.Len(t, file.Imports, 3)
	assert.True(t, file.Imports[0].Wildcard)
	assert.Equal(t, []string{"x", "y"}, file.Imports[0].Name.Strings())
	require.NotNil(t, file.Imports[1].Alias)
	assert.Equal(t, "Z", file.Imports[1].Alias.Name())
	assert.Equal(t, []string{"q"}, file.Imports[2].Name.Strings())
}

func TestParseDeclarations(t *testing.T) {
	src := `
singleton data Foo<T>(x: Int, y: T = 1) : Bar, Baz<T> {
	fun bar(): Int
	val size: Int get() = 1
}
ref data Point
trait Shape<S> : Named { fun area(): Int / IO }
typealias Alias<A> = Map<String, A?>
effect IO
impl Foo : Shape { fun area(): Int = 0 }
impl fun Foo.helper() {}
var List<T>.count: Int
fun <T> T?.orElse(other: T): T = this ?: other
`
	file, errs := parse(t, src)
	require.Empty(t, errs)
	require.Len(t, file.Declarations, 9)

	data, ok := file.Declarations[0].(*grammar.DataDeclaration)
	require.True(t, ok)
	assert.Equal(t, "Foo", data.Name.Name())
	require.Len(t, data.Modifiers, 1)
	assert.Equal(t, grammar.KindSingleton, data.Modifiers[0].Token.Kind)
	require.NotNil(t, data.TypeParameters)
	assert.Len(t, data.TypeParameters.Parameters, 1)
	require.NotNil(t, data.ValueParameters)
	assert.Len(t, data.ValueParameters.Parameters, 2)
	assert.Len(t, data.Bindings, 2)
	require.NotNil(t, data.Body)
	require.Len(t, data.Body.Members, 2)
	prop, ok := data.Body.Members[1].(*grammar.PropertyDeclaration)
	require.True(t, ok)
	assert.Len(t, prop.Accessors, 1)

	point, ok := file.Declarations[1].(*grammar.DataDeclaration)
	require.True(t, ok)
	require.NotNil(t, point.Flavor)
	assert.Equal(t, grammar.KindRef, point.Flavor.Kind)
	assert.Empty(t, point.Modifiers)
}

func TestParseDeclarationsFlavor(t *testing.T) {
	file, errs := parse(t, "val data A\nref data B\ndata C")
	require.Empty(t, errs)
	require.Len(t, file.Declarations, 3)

	flavors := []grammar.Kind{grammar.KindVal, grammar.KindRef}
	for i, k := range flavors {
		d := file.Declarations[i].(*grammar.DataDeclaration)
		require.NotNil(t, d.Flavor)
		assert.Equal(t, k, d.Flavor.Kind)
	}
	assert.Nil(t, file.Declarations[2].(*grammar.DataDeclaration).Flavor)
}

func TestParseReceivers(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantName     string
		wantReceiver []string
		nullable     bool
		typeArgs     int
	}{
		{name: "plain", input: "fun foo()", wantName: "foo"},
		{name: "simple receiver", input: "fun Foo.bar()", wantName: "bar", wantReceiver: []string{"Foo"}},
		{name: "dotted receiver", input: "fun a.Foo.bar()", wantName: "bar", wantReceiver: []string{"a", "Foo"}},
		{name: "generic receiver", input: "fun <T> List<T>.bar()", wantName: "bar", wantReceiver: []string{"List"}, typeArgs: 1},
		{name: "nullable receiver", input: "fun Foo?.bar()", wantName: "bar", wantReceiver: []string{"Foo"}, nullable: true},
		{name: "nullable generic receiver", input: "fun List<T>?.bar()", wantName: "bar", wantReceiver: []string{"List"}, nullable: true, typeArgs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, errs := parse(t, tt.input)
			require.Empty(t, errs)
			require.Len(t, file.Declarations, 1)
			fn := file.Declarations[0].(*grammar.FunctionDeclaration)
			require.NotNil(t, fn.Name)
			assert.Equal(t, tt.wantName, fn.Name.Name())
			if tt.wantReceiver == nil {
				assert.Nil(t, fn.Receiver)
				return
			}
			recv, ok := fn.Receiver.(*grammar.RegularType)
			require.True(t, ok)
			assert.Equal(t, tt.wantReceiver, recv.Name.Strings())
			assert.Equal(t, tt.nullable, recv.Nullable)
			assert.Len(t, recv.Arguments, tt.typeArgs)
		})
	}
}

func TestParseTypes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, typ grammar.TypeNode)
	}{
		{
			name:  "nothing",
			input: "typealias A = Nothing",
			check: func(t *testing.T, typ grammar.TypeNode) {
				assert.IsType(t, &grammar.NothingType{}, typ)
			},
		},
		{
			name:  "dynamic",
			input: "typealias A = dynamic",
			check: func(t *testing.T, typ grammar.TypeNode) {
				assert.IsType(t, &grammar.DynamicType{}, typ)
			},
		},
		{
			name:  "parenthesized",
			input: "typealias A = (B)",
			check: func(t *testing.T, typ grammar.TypeNode) {
				p, ok := typ.(*grammar.ParenthesizedType)
				require.True(t, ok)
				assert.IsType(t, &grammar.RegularType{}, p.Inner)
			},
		},
		{
			name:  "existential nullable generic",
			input: "typealias A = exist a.B<C, D?>?",
			check: func(t *testing.T, typ grammar.TypeNode) {
				r, ok := typ.(*grammar.RegularType)
				require.True(t, ok)
				assert.True(t, r.Existential)
				assert.True(t, r.Nullable)
				assert.Equal(t, []string{"a", "B"}, r.Name.Strings())
				require.Len(t, r.Arguments, 2)
				assert.True(t, r.Arguments[1].(*grammar.RegularType).Nullable)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, errs := parse(t, tt.input)
			require.Empty(t, errs)
			alias := file.Declarations[0].(*grammar.TypealiasDeclaration)
			tt.check(t, alias.Type)
		})
	}
}

func firstExpr(t *testing.T, src string) grammar.Expr {
	t.Helper()
	file, errs := parse(t, "fun f() {\n"+src+"\n}")
	require.Empty(t, errs)
	fn := file.Declarations[0].(*grammar.FunctionDeclaration)
	require.NotNil(t, fn.Body)
	require.NotEmpty(t, fn.Body.Statements)
	stmt, ok := fn.Body.Statements[0].(*grammar.ExpressionStatement)
	require.True(t, ok, "got %T", fn.Body.Statements[0])
	return stmt.Expr
}

func TestParseExpressions(t *testing.T) {
	t.Run("qualified call keeps the dotted name", func(t *testing.T) {
		call, ok := firstExpr(t, "Foo.bar()").(*grammar.CallExpr)
		require.True(t, ok)
		name, ok := call.Callee.(*grammar.NameExpr)
		require.True(t, ok)
		assert.Equal(t, []string{"Foo", "bar"}, name.Name.Strings())
	})

	t.Run("navigation after a call", func(t *testing.T) {
		nav, ok := firstExpr(t, "foo().bar").(*grammar.NavigationExpr)
		require.True(t, ok)
		assert.Equal(t, "bar", nav.Name.Name())
		assert.IsType(t, &grammar.CallExpr{}, nav.Target)
	})

	t.Run("precedence", func(t *testing.T) {
		bin, ok := firstExpr(t, "a + b * c").(*grammar.BinaryExpr)
		require.True(t, ok)
		assert.Equal(t, grammar.KindPlus, bin.Operator.Kind)
		right, ok := bin.Right.(*grammar.BinaryExpr)
		require.True(t, ok)
		assert.Equal(t, grammar.KindMultiply, right.Operator.Kind)
	})

	t.Run("infix call", func(t *testing.T) {
		call, ok := firstExpr(t, "a to b").(*grammar.InfixFunctionCall)
		require.True(t, ok)
		assert.Equal(t, "to", call.Function.Name())
	})

	t.Run("named arguments", func(t *testing.T) {
		call, ok := firstExpr(t, "make(1, size = 2)").(*grammar.CallExpr)
		require.True(t, ok)
		require.Len(t, call.Arguments.Arguments, 2)
		assert.Nil(t, call.Arguments.Arguments[0].Name)
		require.NotNil(t, call.Arguments.Arguments[1].Name)
		assert.Equal(t, "size", call.Arguments.Arguments[1].Name.Name())
	})

	t.Run("type test and cast", func(t *testing.T) {
		cast, ok := firstExpr(t, "x as? Foo").(*grammar.CastExpr)
		require.True(t, ok)
		assert.Equal(t, grammar.KindSafeAs, cast.Operator.Kind)
		test, ok := firstExpr(t, "x !is Foo").(*grammar.TypeTestExpr)
		require.True(t, ok)
		assert.Equal(t, grammar.KindNotIs, test.Operator.Kind)
	})

	t.Run("if with else on the next line", func(t *testing.T) {
		ifx, ok := firstExpr(t, "if (a) b\nelse c").(*grammar.IfExpr)
		require.True(t, ok)
		assert.NotNil(t, ifx.Else)
	})

	t.Run("match", func(t *testing.T) {
		m, ok := firstExpr(t, "match (x) {\n is Foo -> 1\n 1, 2 -> { 2 }\n else -> 3\n}").(*grammar.MatchExpr)
		require.True(t, ok)
		require.Len(t, m.Cases, 3)
		assert.IsType(t, &grammar.IsCondition{}, m.Cases[0].Conditions[0])
		assert.Len(t, m.Cases[1].Conditions, 2)
		assert.IsType(t, &grammar.Block{}, m.Cases[1].Body)
		assert.True(t, m.Cases[2].Else)
	})

	t.Run("newline ends an expression", func(t *testing.T) {
		file, errs := parse(t, "fun f() {\na\n-b\n}")
		require.Empty(t, errs)
		assert.Len(t, file.Declarations[0].(*grammar.FunctionDeclaration).Body.Statements, 2)
	})

	t.Run("newline inside parentheses is ignored", func(t *testing.T) {
		bin, ok := firstExpr(t, "(a\n+ b)").(*grammar.ParenExpr)
		require.True(t, ok)
		assert.IsType(t, &grammar.BinaryExpr{}, bin.Inner)
	})
}

func TestParseStatements(t *testing.T) {
	file, errs := parse(t, "fun f() {\n val x: Int = 1; var y = x\n y = 2\n fun g() = y\n return y\n}")
	require.Empty(t, errs)
	body := file.Declarations[0].(*grammar.FunctionDeclaration).Body
	require.Len(t, body.Statements, 5)
	assert.IsType(t, &grammar.VariableStatement{}, body.Statements[0])
	assert.IsType(t, &grammar.VariableStatement{}, body.Statements[1])
	assert.IsType(t, &grammar.AssignmentStatement{}, body.Statements[2])
	assert.IsType(t, &grammar.DeclarationStatement{}, body.Statements[3])
	assert.IsType(t, &grammar.ExpressionStatement{}, body.Statements[4])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      []syntaxError
		wantDecls int
	}{
		{
			name:      "unterminated parameter list",
			input:     "data Foo(",
			want:      []syntaxError{{1, 9, "mismatched input '<EOF>' expecting ')'"}},
			wantDecls: 1,
		},
		{
			name:      "extraneous top level token",
			input:     "} data Foo",
			want:      []syntaxError{{1, 0, "extraneous input '}' expecting {<EOF>, 'data', 'trait', 'typealias', 'effect', 'impl', 'fun', 'val', 'var'}"}},
			wantDecls: 1,
		},
		{
			name:      "missing name",
			input:     "data\ntrait T",
			want:      []syntaxError{{2, 0, "mismatched input 'trait' expecting Identifier"}},
			wantDecls: 2,
		},
		{
			name:  "unrecognized character",
			input: "data Foo $",
			want: []syntaxError{
				{1, 9, "token recognition error at: '$'"},
			},
			wantDecls: 1,
		},
		{
			name:  "bad statement recovers at the next line",
			input: "fun f() {\n ) x\n y\n}\ndata After",
			want: []syntaxError{
				{2, 1, "no viable alternative at input ')'"},
			},
			wantDecls: 2,
		},
		{
			name:      "dangling modifier",
			input:     "singleton",
			want:      []syntaxError{{1, 9, "mismatched input '<EOF>' expecting {<EOF>, 'data', 'trait', 'typealias', 'effect', 'impl', 'fun', 'val', 'var'}"}},
			wantDecls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, errs := parse(t, tt.input)
			assert.Equal(t, tt.want, errs)
			assert.Len(t, file.Declarations, tt.wantDecls)
		})
	}
}

func TestWalkVisitsEveryIdentifier(t *testing.T) {
	file, errs := parse(t, "data Foo(x: Bar) { fun baz(): Qux = x.y(z = 1) }")
	require.Empty(t, errs)

	var names []string
	grammar.Walk(file, func(n grammar.Node) bool {
		if id, ok := n.(*grammar.Identifier); ok {
			names = append(names, id.Name())
		}
		return true
	})
	assert.Equal(t, []string{"Foo", "x", "Bar", "baz", "Qux", "x", "y", "z"}, names)
}

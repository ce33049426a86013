package jsast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseJS(t *testing.T, src string) *File {
	t.Helper()
	f, err := Parse(context.Background(), "src/app.js", []byte(src), "javascript")
	require.NoError(t, err)
	return f
}

func parseTS(t *testing.T, src string) *File {
	t.Helper()
	f, err := Parse(context.Background(), "src/app.ts", []byte(src), "typescript")
	require.NoError(t, err)
	return f
}

func onlyClass(t *testing.T, f *File) *Class {
	t.Helper()
	require.Len(t, f.Classes, 1)
	return f.Classes[0]
}

func TestParse_UnsupportedLanguage(t *testing.T) {
	t.Parallel()
	_, err := Parse(context.Background(), "a.py", []byte("x = 1"), "python")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestLanguageForFile(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"a.js":      "javascript",
		"b.JSX":     "javascript",
		"c.mjs":     "javascript",
		"d.ts":      "typescript",
		"e.tsx":     "tsx",
		"f.cts":     "typescript",
		"dir/g.cjs": "javascript",
	}
	for path, want := range cases {
		got, ok := LanguageForFile(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}
	_, ok := LanguageForFile("main.go")
	assert.False(t, ok)
}

func TestParse_ClassDeclarationMembers(t *testing.T) {
	t.Parallel()
	f := parseJS(t, `class Foo extends Bar {
  constructor() { super(); }
  render() { return null; }
  static create() {}
  get value() { return 1; }
  set value(v) {}
  ['computed']() {}
  'quoted'() {}
  #secret() {}
  count = 0;
  static defaults = {};
}
`)
	c := onlyClass(t, f)
	assert.Equal(t, "Foo", c.Name)
	assert.Equal(t, ClassDeclaration, c.Kind)
	assert.Equal(t, "Bar", c.SuperText)
	require.IsType(t, &Ident{}, c.SuperClass)
	assert.Equal(t, 1, c.StartLine)
	assert.Equal(t, 1, c.StartCol)

	require.Len(t, c.Body, 10)

	ctor := c.Body[0].(*MethodDef)
	assert.Equal(t, MethodKindConstructor, ctor.Kind)

	render := c.Body[1].(*MethodDef)
	assert.Equal(t, PropertyKey{Kind: KeyIdentifier, Name: "render"}, render.Key)
	assert.Equal(t, MethodKindMethod, render.Kind)
	assert.False(t, render.Static)
	assert.False(t, render.Computed)

	create := c.Body[2].(*MethodDef)
	assert.True(t, create.Static)

	getter := c.Body[3].(*MethodDef)
	assert.Equal(t, MethodKindGet, getter.Kind)
	setter := c.Body[4].(*MethodDef)
	assert.Equal(t, MethodKindSet, setter.Kind)

	computed := c.Body[5].(*MethodDef)
	assert.True(t, computed.Computed)
	assert.Equal(t, KeyComputed, computed.Key.Kind)

	quoted := c.Body[6].(*MethodDef)
	assert.Equal(t, PropertyKey{Kind: KeyString, Name: "quoted"}, quoted.Key)

	private := c.Body[7].(*MethodDef)
	assert.Equal(t, KeyPrivate, private.Key.Kind)

	field := c.Body[8].(*PropertyDef)
	assert.Equal(t, "count", field.Key.Name)
	assert.False(t, field.Static)

	staticField := c.Body[9].(*PropertyDef)
	assert.True(t, staticField.Static)
}

func TestParse_LeadingCommentsAndListContext(t *testing.T) {
	t.Parallel()
	f := parseJS(t, `import React from 'react';

/**
 * A button.
 * @extends React.Component
 */
class Button {}

// trailing note
export default Button;
`)
	c := onlyClass(t, f)
	require.Len(t, c.LeadingComments(), 1)
	comment := c.LeadingComments()[0]
	assert.True(t, comment.Block)
	assert.Contains(t, comment.Value, "@extends React.Component")
	assert.NotContains(t, comment.Value, "/*")

	ctx, ok := c.Context.(*ListContext)
	require.True(t, ok)
	assert.Len(t, ctx.Items, 3)
	assert.Same(t, c, ctx.Items[1])

	export := ctx.Items[2].(*ExportStmt)
	require.Len(t, export.LeadingComments(), 1)
	assert.Equal(t, " trailing note", export.LeadingComments()[0].Value)
}

func TestParse_ExportedClassHasSingleContext(t *testing.T) {
	t.Parallel()
	f := parseJS(t, `/** @extends React.Component */
export default class Foo {}
`)
	c := onlyClass(t, f)
	assert.Empty(t, c.LeadingComments())

	ctx, ok := c.Context.(*SingleContext)
	require.True(t, ok)
	export, ok := ctx.Decl.(*ExportStmt)
	require.True(t, ok)
	assert.True(t, export.Default)
	require.Len(t, export.LeadingComments(), 1)
}

func TestParse_ClassExpressionContext(t *testing.T) {
	t.Parallel()
	f := parseJS(t, `const Foo = class extends React.Component {};`)
	c := onlyClass(t, f)
	assert.Equal(t, ClassExpression, c.Kind)
	assert.Empty(t, c.Name)

	ctx, ok := c.Context.(*SingleContext)
	require.True(t, ok)
	d, ok := ctx.Decl.(*Declarator)
	require.True(t, ok)
	assert.Equal(t, "Foo", d.Name)

	m, ok := c.SuperClass.(*MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "Component", m.Property)
	assert.Equal(t, "React", m.Object.(*Ident).Name)
}

func TestParse_NestedClassesInSourceOrder(t *testing.T) {
	t.Parallel()
	f := parseJS(t, `function make() {
  class Inner {}
  return class Outer { render() { return class Deep {}; } };
}
class Top {}
`)
	require.Len(t, f.Classes, 4)
	names := []string{}
	for _, c := range f.Classes {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Inner", "Outer", "Deep", "Top"}, names)

	_, ok := f.Classes[0].Context.(*ListContext)
	assert.True(t, ok, "class declared in a function body sits in a statement list")
}

func TestParse_ImportBindings(t *testing.T) {
	t.Parallel()
	f := parseJS(t, `import React, { Component as Base, PureComponent } from 'react';
import * as RN from 'react-native';
const PT = require('prop-types');
`)
	assert.Equal(t, []string{"react", "react-native", "prop-types"}, f.Imports)

	react := f.Scope.Lookup("React")
	require.NotNil(t, react)
	assert.Equal(t, BindImport, react.Kind)
	assert.Equal(t, ImportDefault, react.Import.Kind)
	assert.Equal(t, "react", react.Import.Decl.Source)

	base := f.Scope.Lookup("Base")
	require.NotNil(t, base)
	assert.Equal(t, ImportNamed, base.Import.Kind)
	assert.Equal(t, "Component", base.Import.Imported)

	rn := f.Scope.Lookup("RN")
	require.NotNil(t, rn)
	assert.Equal(t, ImportNamespace, rn.Import.Kind)

	pt := f.Scope.Lookup("PT")
	require.NotNil(t, pt)
	assert.Equal(t, BindVar, pt.Kind)
	call, ok := pt.Value().(*CallExpr)
	require.True(t, ok)
	source, ok := RequireSource(call)
	require.True(t, ok)
	assert.Equal(t, "prop-types", source)
}

func TestParse_DestructuringBindsMemberReads(t *testing.T) {
	t.Parallel()
	f := parseJS(t, `const { Component, PureComponent: Pure } = require('react');`)

	comp := f.Scope.Lookup("Component")
	require.NotNil(t, comp)
	m, ok := comp.Value().(*MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "Component", m.Property)
	_, ok = m.Object.(*CallExpr)
	assert.True(t, ok)

	pure := f.Scope.Lookup("Pure")
	require.NotNil(t, pure)
	m, ok = pure.Value().(*MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "PureComponent", m.Property)
}

func TestParse_AssignmentsAttachToBindings(t *testing.T) {
	t.Parallel()
	f := parseJS(t, `let Base;
Base = React.Component;
let Twice;
Twice = A;
Twice = B;
`)
	base := f.Scope.Lookup("Base")
	require.NotNil(t, base)
	_, ok := base.Value().(*MemberExpr)
	assert.True(t, ok)

	twice := f.Scope.Lookup("Twice")
	require.NotNil(t, twice)
	assert.Len(t, twice.Assigned, 2)
	assert.Nil(t, twice.Value())
}

func TestParse_FunctionScopesShadow(t *testing.T) {
	t.Parallel()
	f := parseJS(t, `import React from 'react';
function wrap(React) {
  return class extends React.Component {};
}
`)
	c := onlyClass(t, f)
	b := c.Scope.Lookup("React")
	require.NotNil(t, b)
	assert.Equal(t, BindParam, b.Kind)
	assert.NotSame(t, f.Scope, b.Scope)
}

func TestParse_Reexports(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"star", `export * from 'react';`, "react"},
		{"commonjs", `module.exports = require('react');`, "react"},
		{"namespaced star is not wholesale", `export * as R from 'react';`, ""},
		{"named re-export", `export { Component } from 'react';`, ""},
		{"nested commonjs ignored", `function f() { module.exports = require('react'); }`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := parseJS(t, tt.src)
			assert.Equal(t, tt.want, f.Reexport)
		})
	}
}

func TestParse_TypeScriptHeritage(t *testing.T) {
	t.Parallel()
	f := parseTS(t, `import * as React from 'react';
interface Props { name: string }
export class Greeting extends React.Component<Props> implements Disposable {
  private count: number = 0;
  public render(): null { return null; }
  dispose(): void {}
}
`)
	c := onlyClass(t, f)
	assert.Equal(t, "Greeting", c.Name)
	m, ok := c.SuperClass.(*MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "Component", m.Property)

	var render *MethodDef
	for _, member := range c.Body {
		if md, ok := member.(*MethodDef); ok && md.Key.Name == "render" {
			render = md
		}
	}
	require.NotNil(t, render)
	assert.False(t, render.Static)

	var field *PropertyDef
	for _, member := range c.Body {
		if pd, ok := member.(*PropertyDef); ok {
			field = pd
		}
	}
	require.NotNil(t, field)
	assert.Equal(t, "count", field.Key.Name)
}

func TestParse_ImplementsOnlyHasNoSuperclass(t *testing.T) {
	t.Parallel()
	f := parseTS(t, `class Service implements Disposable { dispose() {} }`)
	c := onlyClass(t, f)
	assert.Nil(t, c.SuperClass)
}

func TestParse_LineCount(t *testing.T) {
	t.Parallel()
	f := parseJS(t, "a;\nb;\nc;\n")
	assert.Equal(t, 4, f.Lines)
}

func TestObjectLit_Prop(t *testing.T) {
	t.Parallel()
	f := parseJS(t, `const lib = { Component: Base, Component: Other, [k]: x };`)
	b := f.Scope.Lookup("lib")
	require.NotNil(t, b)
	obj, ok := b.Value().(*ObjectLit)
	require.True(t, ok)
	p := obj.Prop("Component")
	require.NotNil(t, p)
	assert.Equal(t, "Other", p.Value.(*Ident).Name)
	assert.Nil(t, obj.Prop("k"))
}

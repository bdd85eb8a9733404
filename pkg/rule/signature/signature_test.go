package signature

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/routemod/pkg/rule"
)

const singleParamHandler = `import { NextResponse } from 'next/server';

export async function GET(
  request: Request,
  { params }: { params: { id: string } }
) {
  try {
    const project = await getProject(params.id);
    return NextResponse.json(project);
  } catch (error) {
    return NextResponse.json({ error: 'failed' }, { status: 500 });
  }
}
`

const singleParamHandlerMigrated = `import { NextResponse } from 'next/server';

export async function GET(
  request: Request,
  { params }: { params: Promise<{ id: string }> }
) {
  try {
    const { id } = await params;
    const project = await getProject(params.id);
    return NextResponse.json(project);
  } catch (error) {
    return NextResponse.json({ error: 'failed' }, { status: 500 });
  }
}
`

func TestRule_Transform_SingleParam(t *testing.T) {
	f := &rule.File{
		Rel:     "api/projects/[id]/route.ts",
		Content: []byte(singleParamHandler),
		Params:  []string{"id"},
	}
	r := New()
	ctx := context.Background()

	require.True(t, r.Guard(ctx, f))

	res, err := r.Transform(ctx, f)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, singleParamHandlerMigrated, string(res.Content))
}

func TestRule_Transform_Idempotent(t *testing.T) {
	f := &rule.File{
		Rel:     "api/projects/[id]/route.ts",
		Content: []byte(singleParamHandler),
		Params:  []string{"id"},
	}
	r := New()
	ctx := context.Background()

	first, err := r.Transform(ctx, f)
	require.NoError(t, err)
	require.True(t, first.Changed)

	migrated := &rule.File{Rel: f.Rel, Content: first.Content, Params: f.Params}
	assert.False(t, r.Guard(ctx, migrated), "guard must skip a migrated file")

	second, err := r.Transform(ctx, migrated)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, string(first.Content), string(second.Content))
}

func TestRule_Transform_NoDoubleWrap(t *testing.T) {
	// Already-wrapped file missing its binding statements stays byte
	// identical: the marker wins over everything else.
	content := `export async function GET(req: Request, { params }: { params: Promise<{ id: string }> }) {
  try {
    return Response.json(params);
  } catch (e) {}
}
`
	f := &rule.File{Rel: "api/[id]/route.ts", Content: []byte(content), Params: []string{"id"}}
	r := New()
	ctx := context.Background()

	assert.False(t, r.Guard(ctx, f))

	res, err := r.Transform(ctx, f)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, content, string(res.Content))
}

func TestRule_Transform_MultiParamInsertionOrder(t *testing.T) {
	content := `export async function PUT(
  request: Request,
  { params }: { params: { orgId: string; userId: string } }
) {
  try {
    return await updateMember(params);
  } catch (error) {
    return fail(error);
  }
}
`
	f := &rule.File{
		Rel:     "api/v1/organizations/[orgId]/members/[userId]/route.ts",
		Content: []byte(content),
		Params:  []string{"orgId", "userId"},
	}
	r := New()
	res, err := r.Transform(context.Background(), f)
	require.NoError(t, err)
	require.True(t, res.Changed)

	want := `export async function PUT(
  request: Request,
  { params }: { params: Promise<{ orgId: string; userId: string }> }
) {
  try {
    const { orgId } = await params;
    const { userId } = await params;
    return await updateMember(params);
  } catch (error) {
    return fail(error);
  }
}
`
	assert.Equal(t, want, string(res.Content))
}

func TestRule_Transform_UpgradesSyncBinding(t *testing.T) {
	content := `export async function DELETE(req: Request, { params }: { params: { id: string } }) {
  try {
    const { id } = params;
    await remove(id);
  } catch (error) {
    throw error;
  }
}
`
	f := &rule.File{Rel: "api/[id]/route.ts", Content: []byte(content), Params: []string{"id"}}
	res, err := New().Transform(context.Background(), f)
	require.NoError(t, err)
	require.True(t, res.Changed)

	out := string(res.Content)
	assert.Contains(t, out, "params: Promise<{ id: string }>")
	assert.Contains(t, out, "const { id } = await params;")
	assert.NotContains(t, out, "const { id } = params;")
	// Upgraded in place, not inserted a second time.
	assert.Equal(t, 1, countOccurrences(out, "const { id } = await params;"))
}

func TestRule_Transform_UpgradesEverySyncBinding(t *testing.T) {
	// Two handlers, each with its own synchronous binding. One pass must
	// upgrade both: a leftover sync binding would be locked in forever by
	// the migrated marker.
	content := `export async function GET(req: Request, { params }: { params: { id: string } }) {
  try {
    const { id } = params;
    return get(id);
  } catch (e) {}
}

export async function DELETE(req: Request, { params }: { params: { id: string } }) {
  try {
    const { id } = params;
    return del(id);
  } catch (e) {}
}
`
	f := &rule.File{Rel: "api/[id]/route.ts", Content: []byte(content), Params: []string{"id"}}
	r := New()
	ctx := context.Background()

	res, err := r.Transform(ctx, f)
	require.NoError(t, err)
	require.True(t, res.Changed)

	out := string(res.Content)
	assert.NotContains(t, out, "const { id } = params;")
	assert.Equal(t, 2, countOccurrences(out, "const { id } = await params;"))

	migrated := &rule.File{Rel: f.Rel, Content: res.Content, Params: f.Params}
	assert.False(t, r.Guard(ctx, migrated))
	second, err := r.Transform(ctx, migrated)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, out, string(second.Content))
}

func TestRule_Transform_AnchorFallback(t *testing.T) {
	// No try block: the type is still rewritten and the file counts as
	// modified, but the binding is not inserted and a warning says so.
	content := `export async function GET(req: Request, { params }: { params: { id: string } }) {
  return Response.json({ id: params.id });
}
`
	f := &rule.File{Rel: "api/[id]/route.ts", Content: []byte(content), Params: []string{"id"}}
	res, err := New().Transform(context.Background(), f)
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Contains(t, string(res.Content), "params: Promise<{ id: string }>")
	assert.NotContains(t, string(res.Content), "await params")
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "no guarded-block anchor")
	assert.Contains(t, res.Warnings[0], "id")
}

func TestRule_Transform_WrapsEveryHandler(t *testing.T) {
	content := `export async function GET(req: Request, { params }: { params: { id: string } }) {
  try {
    return get(params);
  } catch (e) {}
}

export async function DELETE(req: Request, { params }: { params: { id: string } }) {
  try {
    return del(params);
  } catch (e) {}
}
`
	f := &rule.File{Rel: "api/[id]/route.ts", Content: []byte(content), Params: []string{"id"}}
	res, err := New().Transform(context.Background(), f)
	require.NoError(t, err)
	require.True(t, res.Changed)

	out := string(res.Content)
	assert.Equal(t, 2, countOccurrences(out, "params: Promise<{ id: string }>"))
	// Binding handling is per identifier, so the statement lands once, at
	// the first guarded block.
	assert.Equal(t, 1, countOccurrences(out, "const { id } = await params;"))
}

func TestRule_Guard(t *testing.T) {
	tests := []struct {
		name    string
		content string
		params  []string
		want    bool
	}{
		{
			name:    "sync_shape_present",
			content: singleParamHandler,
			params:  []string{"id"},
			want:    true,
		},
		{
			name:    "no_params_excludes_catch_all_routes",
			content: singleParamHandler,
			params:  nil,
			want:    false,
		},
		{
			name:    "migrated_marker_skips",
			content: singleParamHandlerMigrated,
			params:  []string{"id"},
			want:    false,
		},
		{
			name:    "no_annotation_skips",
			content: "export const runtime = 'edge';\n",
			params:  []string{"id"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &rule.File{Rel: "api/[id]/route.ts", Content: []byte(tt.content), Params: tt.params}
			assert.Equal(t, tt.want, New().Guard(context.Background(), f))
		})
	}
}

func countOccurrences(s, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
		}
	}
	return count
}

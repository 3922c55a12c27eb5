package patch

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const addDiff = `diff --git a/foo.py b/foo.py
index 83db48f..bf269f4 100644
--- a/foo.py
+++ b/foo.py
@@ -10,7 +10,7 @@ def add(a, b):
     """Add two numbers."""
     x = a + b
-    return x - 1
+    return x + 1
`

func TestParsePatch_SingleHunk(t *testing.T) {
	files := ParsePatch(addDiff)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}

	fc := files[0]
	if fc.Path != "foo.py" || fc.FileName != "foo.py" {
		t.Errorf("unexpected file identity: %+v", fc)
	}
	if diff := cmp.Diff([]int{10}, fc.BuggyLineLocations); diff != "" {
		t.Errorf("buggy line locations mismatch:\n%s", diff)
	}
	if len(fc.ChangedFunctions) != 1 {
		t.Fatalf("expected 1 changed function, got %d", len(fc.ChangedFunctions))
	}

	fn := fc.ChangedFunctions[0]
	if fn.Name != "add" {
		t.Errorf("function name = %q, want add", fn.Name)
	}
	wantBefore := `    """Add two numbers."""
    x = a + b
    return x - 1`
	wantAfter := `    """Add two numbers."""
    x = a + b
    return x + 1`
	if diff := cmp.Diff(wantBefore, fn.Before); diff != "" {
		t.Errorf("before mismatch:\n%s", diff)
	}
	if diff := cmp.Diff(wantAfter, fn.After); diff != "" {
		t.Errorf("after mismatch:\n%s", diff)
	}
}

func TestParsePatch_SkipsNonPythonFiles(t *testing.T) {
	text := `diff --git a/README.md b/README.md
@@ -1,2 +1,2 @@
-old
+new
diff --git a/pkg/util.py b/pkg/util.py
@@ -5 +5 @@ def helper():
-    return 0
+    return 1
`
	files := ParsePatch(text)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if files[0].Path != "pkg/util.py" {
		t.Errorf("path = %q, want pkg/util.py", files[0].Path)
	}
	if files[0].FileName != "util.py" {
		t.Errorf("file name = %q, want util.py", files[0].FileName)
	}
}

func TestParsePatch_MultipleHunksSameFunction(t *testing.T) {
	// The second hunk has no def in its context, so its lines accumulate into
	// the function opened by the first hunk.
	text := `diff --git a/calc.py b/calc.py
@@ -3,4 +3,4 @@ def compute(v):
     total = 0
-    total += v
+    total += v * 2
@@ -20,3 +20,3 @@
     if total:
-        return total - 1
+        return total
`
	files := ParsePatch(text)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	fc := files[0]
	if diff := cmp.Diff([]int{3, 20}, fc.BuggyLineLocations); diff != "" {
		t.Errorf("locations mismatch:\n%s", diff)
	}
	if len(fc.ChangedFunctions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(fc.ChangedFunctions))
	}
	fn := fc.ChangedFunctions[0]
	if fn.Name != "compute" {
		t.Errorf("name = %q, want compute", fn.Name)
	}
	wantBefore := `    total = 0
    total += v
    if total:
        return total - 1`
	if diff := cmp.Diff(wantBefore, fn.Before); diff != "" {
		t.Errorf("before mismatch:\n%s", diff)
	}
}

func TestParsePatch_NewDefClosesPreviousFunction(t *testing.T) {
	text := `diff --git a/mod.py b/mod.py
@@ -1,3 +1,3 @@ def first():
-    return 1
+    return 2
@@ -10,3 +10,3 @@ def second():
-    return 3
+    return 4
`
	files := ParsePatch(text)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	fns := files[0].ChangedFunctions
	if len(fns) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(fns))
	}
	if fns[0].Name != "first" || fns[1].Name != "second" {
		t.Errorf("function names = %q, %q", fns[0].Name, fns[1].Name)
	}
}

func TestParsePatch_DedupsAndSortsLocations(t *testing.T) {
	text := `diff --git a/a.py b/a.py
@@ -30,2 +30,2 @@ def z():
-    x = 1
+    x = 2
@@ -30,2 +30,2 @@
-    y = 1
+    y = 2
@@ -5,2 +5,2 @@
-    z = 1
+    z = 2
`
	files := ParsePatch(text)
	if diff := cmp.Diff([]int{5, 30}, files[0].BuggyLineLocations); diff != "" {
		t.Errorf("locations mismatch:\n%s", diff)
	}
}

func TestParsePatch_MalformedHunkContributesNothing(t *testing.T) {
	text := `diff --git a/b.py b/b.py
@@ broken header @@
-    dropped = True
@@ -7 +7 @@ def ok():
-    return False
+    return True
`
	files := ParsePatch(text)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if diff := cmp.Diff([]int{7}, files[0].BuggyLineLocations); diff != "" {
		t.Errorf("locations mismatch:\n%s", diff)
	}
	if len(files[0].ChangedFunctions) != 1 || files[0].ChangedFunctions[0].Name != "ok" {
		t.Errorf("unexpected functions: %+v", files[0].ChangedFunctions)
	}
}

func TestParsePatch_NoQualifyingFiles(t *testing.T) {
	if files := ParsePatch("diff --git a/x.c b/x.c\n@@ -1 +1 @@\n-a\n+b\n"); files != nil {
		t.Errorf("expected nil, got %+v", files)
	}
	if files := ParsePatch(""); files != nil {
		t.Errorf("expected nil on empty input, got %+v", files)
	}
}

func TestParsePatch_DefWithoutName_ClearsFunction(t *testing.T) {
	// A hunk context containing "def " but no parsable signature closes the
	// open function and attributes following lines to none.
	text := `diff --git a/c.py b/c.py
@@ -1,2 +1,2 @@ def real():
-    a = 1
+    a = 2
@@ -9,2 +9,2 @@ # about def usage
-    b = 1
+    b = 2
`
	files := ParsePatch(text)
	fns := files[0].ChangedFunctions
	if len(fns) != 1 {
		t.Fatalf("expected 1 function, got %d", len(fns))
	}
	if fns[0].Name != "real" {
		t.Errorf("name = %q, want real", fns[0].Name)
	}
	if diff := cmp.Diff("    a = 1", fns[0].Before); diff != "" {
		t.Errorf("before mismatch:\n%s", diff)
	}
}

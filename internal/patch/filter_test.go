package patch

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassifySingleLine_Qualifies(t *testing.T) {
	change, ok := ClassifySingleLine(addDiff)
	if !ok {
		t.Fatal("expected single-line classification to succeed")
	}
	want := &SingleLineChange{
		File:        "foo.py",
		DeletedLine: "return x - 1",
		AddedLine:   "return x + 1",
	}
	if diff := cmp.Diff(want, change); diff != "" {
		t.Errorf("change mismatch:\n%s", diff)
	}
}

func TestClassifySingleLine_TwoFilesFails(t *testing.T) {
	text := `diff --git a/a.py b/a.py
@@ -1 +1 @@
-x = 1
+x = 2
diff --git a/b.py b/b.py
@@ -1 +1 @@
-y = 1
+y = 2
`
	if change, ok := ClassifySingleLine(text); ok || change != nil {
		t.Errorf("expected (nil, false), got (%+v, %v)", change, ok)
	}
}

func TestClassifySingleLine_TestFileExcluded(t *testing.T) {
	text := `diff --git a/tests/test_foo.py b/tests/test_foo.py
@@ -1 +1 @@
-x = 1
+x = 2
`
	if _, ok := ClassifySingleLine(text); ok {
		t.Error("test file should not qualify")
	}

	// Case-insensitive: "Test" anywhere in the path disqualifies.
	text = `diff --git a/pkg/SelfTest/runner.py b/pkg/SelfTest/runner.py
@@ -1 +1 @@
-x = 1
+x = 2
`
	if _, ok := ClassifySingleLine(text); ok {
		t.Error("path containing Test should not qualify")
	}
}

func TestClassifySingleLine_IgnoresBlankAndCommentLines(t *testing.T) {
	text := `diff --git a/m.py b/m.py
@@ -4,6 +4,6 @@ def f():
-    # old comment
-
-    value = compute()
+    # new comment
+
+    value = compute() + 1
`
	change, ok := ClassifySingleLine(text)
	if !ok {
		t.Fatal("blank and comment lines should be ignored")
	}
	if change.DeletedLine != "value = compute()" || change.AddedLine != "value = compute() + 1" {
		t.Errorf("unexpected change: %+v", change)
	}
}

func TestClassifySingleLine_MultiHunkGlobalCount(t *testing.T) {
	// One file, two hunks, but a 1/1 code-line delta in total still qualifies.
	text := `diff --git a/m.py b/m.py
@@ -2,3 +2,2 @@ def f():
     x = 1
-    y = x * 2
@@ -9,2 +8,3 @@ def g():
     pass
+    y = x * 3
`
	change, ok := ClassifySingleLine(text)
	if !ok {
		t.Fatal("diff-global 1/1 delta across hunks should qualify")
	}
	if change.DeletedLine != "y = x * 2" || change.AddedLine != "y = x * 3" {
		t.Errorf("unexpected change: %+v", change)
	}
}

func TestClassifySingleLine_TwoRemovedLinesFails(t *testing.T) {
	text := `diff --git a/m.py b/m.py
@@ -1,3 +1,2 @@
-a = 1
-b = 2
+a = 3
`
	if _, ok := ClassifySingleLine(text); ok {
		t.Error("2 removed / 1 added should not qualify")
	}
}

func TestClassifySingleLine_EmptyInput(t *testing.T) {
	if _, ok := ClassifySingleLine(""); ok {
		t.Error("empty patch should not qualify")
	}
}

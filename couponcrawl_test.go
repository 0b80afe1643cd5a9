package couponcrawl_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/couponcrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := couponcrawl.Errorf(couponcrawl.ENOTFOUND, "course %q not found", "Learn Go")

	assert.Equal(t, couponcrawl.ENOTFOUND, couponcrawl.ErrorCode(err))
	assert.Equal(t, "course \"Learn Go\" not found", couponcrawl.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, couponcrawl.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, couponcrawl.ErrorMessage(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, couponcrawl.EINTERNAL, couponcrawl.ErrorCode(err))
	assert.Equal(t, "Internal error.", couponcrawl.ErrorMessage(err))
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	t.Run("keeps the cause reachable", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		err := couponcrawl.WrapError(couponcrawl.EUNAVAILABLE, cause, "open %s", "courses.db")

		assert.Equal(t, couponcrawl.EUNAVAILABLE, couponcrawl.ErrorCode(err))
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("outermost code wins", func(t *testing.T) {
		t.Parallel()

		inner := couponcrawl.Errorf(couponcrawl.EFETCH, "HTTP 503")
		err := fmt.Errorf("listing: %w", couponcrawl.WrapError(couponcrawl.EDISCOVERY, inner, "fetch root"))

		assert.Equal(t, couponcrawl.EDISCOVERY, couponcrawl.ErrorCode(err))
	})
}

func TestListingPage_URL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://www.discudemy.com/all/3", couponcrawl.ListingPage{Index: 3}.URL("https://www.discudemy.com/all"))
	assert.Equal(t, "https://www.discudemy.com/all/1", couponcrawl.ListingPage{Index: 1}.URL("https://www.discudemy.com/all/"))
}

func TestNormalizeDetailLink(t *testing.T) {
	t.Parallel()

	const prefix = "https://www.discudemy.com/go"

	t.Run("rewrites the last path segment under the prefix", func(t *testing.T) {
		t.Parallel()

		link, ok := couponcrawl.NormalizeDetailLink(prefix, "https://www.discudemy.com/english/learn-go")

		require.True(t, ok)
		assert.Equal(t, "https://www.discudemy.com/go/learn-go", link)
	})

	t.Run("ignores trailing slashes", func(t *testing.T) {
		t.Parallel()

		link, ok := couponcrawl.NormalizeDetailLink(prefix+"/", "/english/learn-go//")

		require.True(t, ok)
		assert.Equal(t, "https://www.discudemy.com/go/learn-go", link)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		for _, href := range []string{
			"https://www.discudemy.com/english/learn-go",
			"/italiano/corso-python/",
			"plain-slug",
		} {
			once, ok := couponcrawl.NormalizeDetailLink(prefix, href)
			require.True(t, ok)
			twice, ok := couponcrawl.NormalizeDetailLink(prefix, once)
			require.True(t, ok)
			assert.Equal(t, once, twice, href)
		}
	})

	t.Run("rejects links without a segment", func(t *testing.T) {
		t.Parallel()

		for _, href := range []string{"", "   ", "/", "///"} {
			_, ok := couponcrawl.NormalizeDetailLink(prefix, href)
			assert.False(t, ok, href)
		}
	})
}

func TestCourse_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires a URL", func(t *testing.T) {
		t.Parallel()

		err := (&couponcrawl.Course{Name: "Learn Go"}).Validate()

		assert.Equal(t, couponcrawl.EINVALID, couponcrawl.ErrorCode(err))
	})

	t.Run("accepts a course with only a URL", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, (&couponcrawl.Course{URL: "https://www.udemy.com/course/x/?couponCode=A"}).Validate())
	})
}

func TestContentHash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, couponcrawl.ContentHash("Learn Go", "Basics"), couponcrawl.ContentHash("Learn Go", "Basics"))
	assert.NotEqual(t, couponcrawl.ContentHash("Learn Go", "Basics"), couponcrawl.ContentHash("Learn Go", "Advanced"))
	// The separator keeps field boundaries significant.
	assert.NotEqual(t, couponcrawl.ContentHash("ab", "c"), couponcrawl.ContentHash("a", "bc"))
	assert.Regexp(t, `^[0-9a-f]+$`, couponcrawl.ContentHash("x", "y"))
}

func TestInsertResult_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "inserted", couponcrawl.Inserted.String())
	assert.Equal(t, "already present", couponcrawl.AlreadyPresent.String())
}

func TestUpdateResult_NoMatch(t *testing.T) {
	t.Parallel()

	assert.True(t, couponcrawl.UpdateResult{}.NoMatch())
	assert.False(t, couponcrawl.UpdateResult{Matched: 2}.NoMatch())
}

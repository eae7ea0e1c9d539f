package config_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/LamaAni/yapenv/internal/config"
	"github.com/LamaAni/yapenv/internal/mocks"
)

type LoaderTestSuite struct {
	suite.Suite
	fs *mocks.MemFS
}

func (s *LoaderTestSuite) SetupTest() {
	s.fs = mocks.NewMemFS()
}

func (s *LoaderTestSuite) loader() *config.Loader {
	return config.NewLoader(s.fs, nil)
}

func (s *LoaderTestSuite) TestCandidateOrder() {
	// Given two candidate files in the same directory
	s.fs.Files["/project/.yapenv.yaml"] = `python_version: "3.11"`
	s.fs.Files["/project/.yapenv.json"] = `{"python_version": "3.8"}`

	// When loading, the earlier candidate wins
	doc, path, err := s.loader().LoadDir("/project")
	s.Require().NoError(err)
	s.Equal("/project/.yapenv.yaml", path)
	v, ok := doc.Get("python_version")
	s.Require().True(ok)
	s.Equal("3.11", v.Str())
}

func (s *LoaderTestSuite) TestNoConfigFound() {
	_, _, err := s.loader().LoadDir("/empty")
	s.Require().Error(err)
	s.True(errors.Is(err, config.ErrNotFound))

	var notFound *config.NotFoundError
	s.Require().True(errors.As(err, &notFound))
	s.Equal("/empty", notFound.Dir)
	s.Contains(notFound.Candidates, ".yapenv.yaml")
}

func (s *LoaderTestSuite) TestJSONWithComments() {
	s.fs.Files["/project/.yapenv.json"] = `{
		// the python to use
		"python_version": "3.12",
		"requirements": ["black"],
	}`

	doc, _, err := s.loader().LoadDir("/project")
	s.Require().NoError(err)
	v, ok := doc.Get("python_version")
	s.Require().True(ok)
	s.Equal("3.12", v.Str())
}

func (s *LoaderTestSuite) TestMalformedYAML() {
	s.fs.Files["/project/.yapenv.yaml"] = "python_version: [unclosed"

	_, _, err := s.loader().LoadDir("/project")
	s.Require().Error(err)

	var parseErr *config.ParseError
	s.Require().True(errors.As(err, &parseErr))
	s.Equal("/project/.yapenv.yaml", parseErr.Path)
}

func (s *LoaderTestSuite) TestNonMappingRoot() {
	s.fs.Files["/project/.yapenv.yaml"] = "- just\n- a\n- list"

	_, _, err := s.loader().LoadDir("/project")
	var parseErr *config.ParseError
	s.Require().True(errors.As(err, &parseErr))
	s.Contains(parseErr.Error(), "mapping")
}

func (s *LoaderTestSuite) TestEmptyDocument() {
	s.fs.Files["/project/.yapenv.yaml"] = ""

	doc, _, err := s.loader().LoadDir("/project")
	s.Require().NoError(err)
	s.Equal(config.KindMapping, doc.Kind())
	s.Equal(0, doc.Len())
}

func (s *LoaderTestSuite) TestCandidateOverrideFromEnv() {
	s.T().Setenv("YAPENV_CONFIG_FILES", "custom.yaml, fallback.json")
	s.fs.Files["/project/fallback.json"] = `{"python_version": "3.9"}`

	doc, path, err := config.NewLoader(s.fs, nil).LoadDir("/project")
	s.Require().NoError(err)
	s.Equal("/project/fallback.json", path)
	v, _ := doc.Get("python_version")
	s.Equal("3.9", v.Str())
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderTestSuite))
}

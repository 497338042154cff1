package directory_test

import (
	"context"
	"errors"
	"lemmony/internal/directory"
	"lemmony/pkg/domain"
	"lemmony/pkg/serrors"
	"testing"

	mockaggregator "lemmony/pkg/aggregator/mock"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type countRecorder map[string]int

func (c countRecorder) ActorsFetched(_ context.Context, kind string, n int) {
	c[kind] += n
}

func community(instance, name string, posts int) domain.RemoteActor {
	return domain.RemoteActor{
		ActorID:  "https://" + instance + "/c/" + name,
		Instance: instance,
		Kind:     domain.ActorKindCommunity,
		Posts:    posts,
	}
}

func magazine(instance, name string) domain.RemoteActor {
	return domain.RemoteActor{
		ActorID:  "https://" + instance + "/m/" + name,
		Instance: instance,
		Kind:     domain.ActorKindMagazine,
	}
}

func newTestFetcher(t *testing.T, include, exclude []string) (*mockaggregator.MockClient, countRecorder, *directory.Fetcher) {
	t.Helper()

	ctrl := gomock.NewController(t)
	client := mockaggregator.NewMockClient(ctrl)
	rec := countRecorder{}
	f := directory.New(client, directory.Options{
		PageSize: directory.PageSize,
		Filter:   directory.NewFilter(include, exclude),
	}, rec)

	return client, rec, f
}

func TestPageIndexes(t *testing.T) {
	require.Equal(t, []int{1, 0}, directory.PageIndexes(750, 500))
	require.Equal(t, []int{0}, directory.PageIndexes(0, 500))
	require.Equal(t, []int{0}, directory.PageIndexes(499, 500))
	require.Equal(t, []int{2, 1, 0}, directory.PageIndexes(1000, 500))
	require.Equal(t, []int{0}, directory.PageIndexes(-3, 500))
}

func TestFetcher_Fetch_PagesDescending(t *testing.T) {
	client, rec, f := newTestFetcher(t, nil, nil)

	client.EXPECT().Meta(gomock.Any()).Return(domain.DirectoryMeta{Communities: 750, Magazines: 10}, nil)
	gomock.InOrder(
		client.EXPECT().Communities(gomock.Any(), 1).Return([]domain.RemoteActor{community("lemmy.ml", "linux", 3)}, nil),
		client.EXPECT().Communities(gomock.Any(), 0).Return([]domain.RemoteActor{community("beehaw.org", "tech", 9)}, nil),
		client.EXPECT().Magazines(gomock.Any(), 0).Return([]domain.RemoteActor{magazine("kbin.social", "news")}, nil),
	)

	res, err := f.Fetch(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{
		"https://lemmy.ml/c/linux",
		"https://beehaw.org/c/tech",
		"https://kbin.social/m/news",
	}, actorIDs(res.All()))
	require.Equal(t, 2, rec["community"])
	require.Equal(t, 1, rec["magazine"])
}

func TestFetcher_Fetch_IncludeRestricts(t *testing.T) {
	client, _, f := newTestFetcher(t, []string{"lemmy.ml"}, nil)

	client.EXPECT().Meta(gomock.Any()).Return(domain.DirectoryMeta{Communities: 2, Magazines: 1}, nil)
	client.EXPECT().Communities(gomock.Any(), 0).Return([]domain.RemoteActor{
		community("lemmy.world", "memes", 40),
		community("lemmy.ml", "linux", 5),
	}, nil)
	client.EXPECT().Magazines(gomock.Any(), 0).Return([]domain.RemoteActor{magazine("kbin.social", "news")}, nil)

	res, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"https://lemmy.ml/c/linux"}, actorIDs(res.Communities))
	require.Empty(t, res.Magazines)
}

func TestFetcher_Fetch_ExcludeAndPosts(t *testing.T) {
	client, _, f := newTestFetcher(t, []string{"lemmy.ml", "kbin.social"}, []string{"lemmy.ml"})

	client.EXPECT().Meta(gomock.Any()).Return(domain.DirectoryMeta{Communities: 3, Magazines: 2}, nil)
	client.EXPECT().Communities(gomock.Any(), 0).Return([]domain.RemoteActor{
		community("lemmy.ml", "linux", 5),
		{ActorID: "https://kbin.social/c/empty", Instance: "kbin.social", Kind: domain.ActorKindCommunity},
		community("kbin.social", "active", 1),
	}, nil)
	client.EXPECT().Magazines(gomock.Any(), 0).Return([]domain.RemoteActor{
		magazine("lemmy.ml", "excluded"),
		magazine("kbin.social", "noposts"),
	}, nil)

	res, err := f.Fetch(context.Background())
	require.NoError(t, err)
	// zero-post communities are dropped, magazines are never filtered by posts
	require.Equal(t, []string{"https://kbin.social/c/active"}, actorIDs(res.Communities))
	require.Equal(t, []string{"https://kbin.social/m/noposts"}, actorIDs(res.Magazines))
}

func TestFetcher_Fetch_ExactMultipleTopPageMissing(t *testing.T) {
	client, _, f := newTestFetcher(t, nil, nil)

	notFound := serrors.With(serrors.ErrNotFound, "GET /community/1.json failed with status 404")
	client.EXPECT().Meta(gomock.Any()).Return(domain.DirectoryMeta{Communities: 500, Magazines: 0}, nil)
	client.EXPECT().Communities(gomock.Any(), 1).Return(nil, notFound)
	client.EXPECT().Communities(gomock.Any(), 0).Return([]domain.RemoteActor{community("lemmy.ml", "linux", 1)}, nil)
	client.EXPECT().Magazines(gomock.Any(), 0).Return(nil, nil)

	res, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Communities, 1)
}

func TestFetcher_Fetch_NotFoundIsFatalBelowTop(t *testing.T) {
	client, rec, f := newTestFetcher(t, nil, nil)

	client.EXPECT().Meta(gomock.Any()).Return(domain.DirectoryMeta{Communities: 750}, nil)
	client.EXPECT().Communities(gomock.Any(), 1).Return(nil, serrors.KindOnly(serrors.ErrNotFound))

	res, err := f.Fetch(context.Background())
	require.Error(t, err)
	require.Nil(t, res)
	require.ErrorIs(t, err, serrors.ErrUnexpectedResponse)
	require.ErrorIs(t, err, serrors.ErrNotFound)
	require.Empty(t, rec)
}

func TestFetcher_Fetch_MetaError(t *testing.T) {
	client, _, f := newTestFetcher(t, nil, nil)

	client.EXPECT().Meta(gomock.Any()).Return(domain.DirectoryMeta{}, errors.New("connection reset"))

	_, err := f.Fetch(context.Background())
	require.ErrorContains(t, err, "connection reset")
}

func TestFetcher_Fetch_MagazineError(t *testing.T) {
	client, _, f := newTestFetcher(t, nil, nil)

	client.EXPECT().Meta(gomock.Any()).Return(domain.DirectoryMeta{Communities: 1, Magazines: 1}, nil)
	client.EXPECT().Communities(gomock.Any(), 0).Return([]domain.RemoteActor{community("lemmy.ml", "linux", 1)}, nil)
	client.EXPECT().Magazines(gomock.Any(), 0).Return(nil, serrors.KindOnly(serrors.ErrUnavailable))

	res, err := f.Fetch(context.Background())
	require.ErrorIs(t, err, serrors.ErrUnavailable)
	require.Nil(t, res)
}

func TestNew_DefaultPageSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mockaggregator.NewMockClient(ctrl)
	f := directory.New(client, directory.Options{}, nil)

	client.EXPECT().Meta(gomock.Any()).Return(domain.DirectoryMeta{Communities: 500}, nil)
	client.EXPECT().Communities(gomock.Any(), 1).Return(nil, nil)
	client.EXPECT().Communities(gomock.Any(), 0).Return(nil, nil)
	client.EXPECT().Magazines(gomock.Any(), 0).Return(nil, nil)

	res, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Empty(t, res.All())
}

func actorIDs(actors []domain.RemoteActor) []string {
	ids := make([]string, 0, len(actors))
	for _, a := range actors {
		ids = append(ids, a.ActorID)
	}

	return ids
}

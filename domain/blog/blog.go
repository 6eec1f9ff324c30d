// Package blog holds the authors and posts served by the demo GraphQL API.
package blog

import (
	"fmt"
	"sort"
	"sync"

	apperrors "schemaviz-backend/pkg/errors"
)

// Author writes posts.
type Author struct {
	ID        int32
	FirstName string
	LastName  string
}

// Post is a single article with a vote count.
type Post struct {
	ID       int32
	AuthorID int32
	Title    string
	Votes    int32
}

// Store keeps authors and posts in memory. Every accessor returns copies.
type Store struct {
	mu      sync.RWMutex
	authors map[int32]Author
	posts   map[int32]Post
}

// NewStore creates a store holding the given records.
func NewStore(authors []Author, posts []Post) *Store {
	s := &Store{
		authors: make(map[int32]Author, len(authors)),
		posts:   make(map[int32]Post, len(posts)),
	}
	for _, a := range authors {
		s.authors[a.ID] = a
	}
	for _, p := range posts {
		s.posts[p.ID] = p
	}
	return s
}

// NewSeededStore creates a store with the demo data set.
func NewSeededStore() *Store {
	return NewStore(
		[]Author{
			{ID: 1, FirstName: "Tom", LastName: "Coleman"},
			{ID: 2, FirstName: "Sashko", LastName: "Stubailo"},
			{ID: 3, FirstName: "Mikhail", LastName: "Novikov"},
		},
		[]Post{
			{ID: 1, AuthorID: 1, Title: "Introduction to GraphQL", Votes: 2},
			{ID: 2, AuthorID: 2, Title: "Welcome to Apollo", Votes: 3},
			{ID: 3, AuthorID: 2, Title: "Advanced GraphQL", Votes: 1},
			{ID: 4, AuthorID: 3, Title: "Launchpad is Cool", Votes: 7},
			{ID: 5, AuthorID: 1, Title: "DevTools are Great", Votes: 5},
			{ID: 6, AuthorID: 2, Title: "Building OSS", Votes: 20},
			{ID: 7, AuthorID: 3, Title: "GraphQL vs REST", Votes: 400},
		},
	)
}

// Posts returns all posts ordered by id.
func (s *Store) Posts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, p)
	}
	sortPosts(posts)
	return posts
}

// Post looks up a post by id.
func (s *Store) Post(id int32) (Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	return p, ok
}

// Author looks up an author by id.
func (s *Store) Author(id int32) (Author, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.authors[id]
	return a, ok
}

// AuthorOf returns the author who wrote the post.
func (s *Store) AuthorOf(p Post) (Author, bool) {
	return s.Author(p.AuthorID)
}

// PostsByAuthor returns the author's posts ordered by id.
func (s *Store) PostsByAuthor(authorID int32) []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := []Post{}
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			posts = append(posts, p)
		}
	}
	sortPosts(posts)
	return posts
}

// UpvotePost adds one vote and returns the updated post.
func (s *Store) UpvotePost(id int32) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return Post{}, apperrors.NewNotFoundError(fmt.Sprintf("Couldn't find post with id %d", id))
	}
	p.Votes++
	s.posts[id] = p
	return p, nil
}

func sortPosts(posts []Post) {
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
}

// Package graphql serves the blog API over GraphQL and provides clients
// that execute operations in process or against a remote endpoint.
package graphql

import (
	gql "github.com/graph-gophers/graphql-go"

	"schemaviz-backend/domain/blog"
	apperrors "schemaviz-backend/pkg/errors"
)

// SchemaSDL describes the blog API.
const SchemaSDL = `
	type Author {
		id: Int!
		firstName: String
		lastName: String
		# the list of Posts by this author
		posts: [Post]
	}

	type Post {
		id: Int!
		title: String
		author: Author
		votes: Int
	}

	type Query {
		posts: [Post]
		author(id: Int!): Author
	}

	type Mutation {
		upvotePost(postId: Int!): Post
	}

	schema {
		query: Query
		mutation: Mutation
	}
`

// NewSchema parses SchemaSDL and binds it to resolvers over store.
func NewSchema(store *blog.Store) (*gql.Schema, error) {
	return gql.ParseSchema(SchemaSDL, &rootResolver{store: store})
}

type rootResolver struct {
	store *blog.Store
}

func (r *rootResolver) Posts() *[]*postResolver {
	return r.postList(r.store.Posts())
}

func (r *rootResolver) Author(args struct{ ID int32 }) *authorResolver {
	a, ok := r.store.Author(args.ID)
	if !ok {
		return nil
	}
	return &authorResolver{root: r, author: a}
}

func (r *rootResolver) UpvotePost(args struct{ PostID int32 }) (*postResolver, error) {
	p, err := r.store.UpvotePost(args.PostID)
	if err != nil {
		return nil, newResolverError(err)
	}
	return &postResolver{root: r, post: p}, nil
}

func (r *rootResolver) postList(posts []blog.Post) *[]*postResolver {
	out := make([]*postResolver, len(posts))
	for i, p := range posts {
		out[i] = &postResolver{root: r, post: p}
	}
	return &out
}

type authorResolver struct {
	root   *rootResolver
	author blog.Author
}

func (r *authorResolver) ID() int32 { return r.author.ID }

func (r *authorResolver) FirstName() *string { return &r.author.FirstName }

func (r *authorResolver) LastName() *string { return &r.author.LastName }

func (r *authorResolver) Posts() *[]*postResolver {
	return r.root.postList(r.root.store.PostsByAuthor(r.author.ID))
}

type postResolver struct {
	root *rootResolver
	post blog.Post
}

func (r *postResolver) ID() int32 { return r.post.ID }

func (r *postResolver) Title() *string { return &r.post.Title }

func (r *postResolver) Votes() *int32 { return &r.post.Votes }

func (r *postResolver) Author() *authorResolver {
	a, ok := r.root.store.AuthorOf(r.post)
	if !ok {
		return nil
	}
	return &authorResolver{root: r.root, author: a}
}

// resolverError exposes the application error type as a GraphQL extension
// while keeping the message clients see unchanged.
type resolverError struct {
	message string
	code    string
}

func newResolverError(err error) *resolverError {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return &resolverError{message: appErr.Message, code: string(appErr.Type)}
	}
	return &resolverError{message: err.Error(), code: string(apperrors.ErrorTypeInternal)}
}

func (e *resolverError) Error() string { return e.message }

func (e *resolverError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

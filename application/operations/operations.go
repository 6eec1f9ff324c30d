// Package operations holds the GraphQL documents the application sends.
package operations

// IntrospectionQuery fetches the full type system of a GraphQL server.
const IntrospectionQuery = `
	query IntrospectionQuery {
		__schema {
			queryType { name }
			mutationType { name }
			subscriptionType { name }
			types {
				...FullType
			}
			directives {
				name
				description
				locations
				args {
					...InputValue
				}
			}
		}
	}

	fragment FullType on __Type {
		kind
		name
		description
		fields(includeDeprecated: true) {
			name
			description
			args {
				...InputValue
			}
			type {
				...TypeRef
			}
			isDeprecated
			deprecationReason
		}
		inputFields {
			...InputValue
		}
		interfaces {
			...TypeRef
		}
		enumValues(includeDeprecated: true) {
			name
			description
			isDeprecated
			deprecationReason
		}
		possibleTypes {
			...TypeRef
		}
	}

	fragment InputValue on __InputValue {
		name
		description
		type { ...TypeRef }
		defaultValue
	}

	fragment TypeRef on __Type {
		kind
		name
		ofType {
			kind
			name
			ofType {
				kind
				name
				ofType {
					kind
					name
					ofType {
						kind
						name
						ofType {
							kind
							name
							ofType {
								kind
								name
								ofType {
									kind
									name
								}
							}
						}
					}
				}
			}
		}
	}
`

// PostsQuery loads every post with its author, selecting __typename so the
// result normalizes into Typename:id records.
const PostsQuery = `
	query PostsWithAuthors {
		posts {
			__typename
			id
			title
			votes
			author {
				__typename
				id
				firstName
				lastName
			}
		}
	}
`

// UpvotePostMutation adds a vote to the post identified by $postId.
const UpvotePostMutation = `
	mutation UpvotePost($postId: Int!) {
		upvotePost(postId: $postId) {
			__typename
			id
			votes
		}
	}
`
